package symbols

import "fmt"

// ValueType is the wire type a symbol's value is expected to carry.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeBool
	TypeTimestamp
	TypeBlob
	TypeList
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	case TypeBlob:
		return "blob"
	case TypeList:
		return "list"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

const (
	// SchemaName and SchemaVersion identify the shared symbol table written into every document.
	SchemaName    = "stb.engagement.format"
	SchemaVersion = 1

	// firstCode leaves room for the container's system symbols.
	firstCode = 10
)

// Symbol is one entry of the shared symbol table.
type Symbol struct {
	Name string
	Code uint64
	Type ValueType
}

// Schema maps field names to compact integer codes. Positions are stable: symbols are only
// ever appended, so a code never changes meaning within a schema name.
type Schema struct {
	name    string
	version int
	symbols []Symbol
	byName  map[string]int
	byCode  map[uint64]int
}

type entry struct {
	name string
	typ  ValueType
}

// table is the version 1 symbol list. Order defines the codes.
var table = []entry{
	{DocVersion, TypeString},
	{Timestamp, TypeTimestamp},
	{Sequence, TypeInt},
	{LibraryName, TypeString},
	{LibraryVersion, TypeString},
	{DeviceType, TypeString},
	{DeviceName, TypeString},
	{DeviceVariant, TypeString},
	{DeviceHwID, TypeBlob},
	{DeviceClientID, TypeString},
	{DeviceCaCard, TypeString},
	{CustomerAmsID, TypeBlob},
	{CustomerPanel, TypeInt},
	{SoftwareVersion, TypeString},
	{Batch, TypeList},
	{HardwareVersion, TypeString},
	{OsVersion, TypeString},
	{DeviceModelID, TypeString},
	{DeviceResets, TypeInt},
	{DeviceUptime, TypeInt},
	{PvrCustFree, TypeInt},
	{PvrPvodFree, TypeInt},
	{PvrNumRecordings, TypeInt},
	{DisplayConnection, TypeString},
	{DisplayName, TypeString},
	{DisplayMaker, TypeString},
	{DisplayBuildDate, TypeString},
	{DisplayOptimalRes, TypeString},
	{DisplayHdrSupport, TypeString},
	{AppPostcode, TypeString},
	{AppDttRegion, TypeString},
	{AppRegionID, TypeString},
	{NetworkType, TypeInt},
	{RcuVersion, TypeString},
	{RcuKeysPressed, TypeBlob},
	{UIVersion, TypeString},
	{EpgVersion, TypeString},
	{EpgInstallDate, TypeTimestamp},
	{RcuType, TypeString},
	{EventKind, TypeInt},
	{AppSessionID, TypeTimestamp},
	{UsageSessionID, TypeTimestamp},
	{PageSessionID, TypeTimestamp},
	{DeviceContextID, TypeInt},
	{EventProperties, TypeList},
	{EventAction, TypeString},
	{UserInitiated, TypeBool},
	{PageName, TypeString},
	{PreviousPage, TypeString},
	{PageFilter, TypeString},
	{PageSort, TypeString},
	{ContentProvider, TypeString},
	{ContentPromoChannel, TypeString},
	{ContentProgramID, TypeString},
	{ContentScheduleID, TypeString},
	{ContentStartTime, TypeTimestamp},
	{ContentDuration, TypeInt},
	{ContentProgramTitle, TypeString},
	{ContentEpisodeTitle, TypeString},
	{ContentClassification, TypeString},
	{ContentResolution, TypeString},
	{ContentPrice, TypeInt},
	{ContentType, TypeInt},
	{PlayerViewStatus, TypeInt},
	{MediaEventSource, TypeInt},
	{MediaBookingSource, TypeInt},
	{MediaRecordStart, TypeTimestamp},
	{MediaDuration, TypeInt},
	{MediaRecordStatus, TypeInt},
	{MediaExpiry, TypeTimestamp},
	{MediaExtendRecord, TypeInt},
	{MediaDownloadState, TypeString},
	{MediaMaxViewedOffset, TypeInt},
	{PlayerViewingStart, TypeTimestamp},
	{PlayerTrickmodeSpeed, TypeInt},
	{PlayerMediaOffset, TypeInt},
	{PlayerViewedDuration, TypeInt},
	{PlayerAvgBitrateKbps, TypeInt},
	{PlayerStartupMs, TypeInt},
	{PlayerBufferingMs, TypeInt},
	{PlayerBufferingCount, TypeInt},
	{PlayerAbrShifts, TypeInt},
	{PlayerJumpTo, TypeString},
	{ErrorMessage, TypeString},
	{ErrorTechnicalMessage, TypeString},
	{DevicePowerStatus, TypeString},
	{DisplayOn, TypeBool},
	{DisplayDetectedHdr, TypeString},
	{DisplayNegHdmi, TypeString},
	{DisplayNegHdcp, TypeString},
	{DisplayNegResolution, TypeString},
	{DisplayNegFramerate, TypeString},
	{DisplayEdidHash, TypeString},
	{DisplayEdidBlock, TypeBlob},
	{SelectorTrackID, TypeBlob},
	{SelectorType, TypeString},
	{SelectorTitle, TypeString},
	{SelectorRow, TypeString},
	{SelectorColumn, TypeString},
	{ContentBrand, TypeString},
	{TileLocked, TypeBool},
	{CollectionTitle, TypeString},
	{CollectionSource, TypeString},
	{SearchInitiator, TypeInt},
	{SearchTerm, TypeString},
	{SearchScore, TypeString},
	{ConfPinClassification, TypeString},
	{ConfPinInfo, TypeString},
	{ConfPinNC, TypeBool},
	{ConfChannelBlocking, TypeBool},
	{ConfPinPurchase, TypeBool},
	{ConfPinProtectKeep, TypeBool},
	{ConfPinIPVideo, TypeBool},
	{ConfPinAppLaunch, TypeBool},
	{ConfNumReminders, TypeInt},
	{ConfNumRecordings, TypeInt},
	{ConfNumTeamLinks, TypeInt},
	{ConfFavouritesSetup, TypeBool},
	{ConfDttSetup, TypeBool},
	{ConfEnergySaving, TypeBool},
	{ConfSpdifAudioMode, TypeString},
	{ConfHdmiAudioMode, TypeString},
	{ConfDownloadHD, TypeBool},
	{ConfStreamFromStore, TypeBool},
	{ConfCecPower, TypeBool},
	{ConfCecVolume, TypeBool},
	{AppName, TypeString},
	{AppProvider, TypeString},
	{AppState, TypeString},
	{RebootType, TypeString},
	// appended after the first field trial
	{PvrHddSize, TypeInt},
	{DeviceTemperature, TypeInt},
	{TunerBer, TypeInt},
	{TunerCnr, TypeInt},
	{TunerSignalLevel, TypeInt},
	{LocationFlagSet, TypeBlob},
	{ApplicationFlagSet, TypeBlob},
}

var v1 = mustBuild(SchemaName, SchemaVersion, table)

// V1 returns the version 1 engagement schema.
func V1() *Schema {
	return v1
}

func mustBuild(name string, version int, entries []entry) *Schema {
	schema := &Schema{
		name:    name,
		version: version,
		symbols: make([]Symbol, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byCode:  make(map[uint64]int, len(entries)),
	}
	for i, e := range entries {
		if _, dup := schema.byName[e.name]; dup {
			panic(fmt.Sprintf("symbols: duplicate symbol %q", e.name))
		}
		code := uint64(firstCode + i)
		schema.symbols = append(schema.symbols, Symbol{Name: e.name, Code: code, Type: e.typ})
		schema.byName[e.name] = i
		schema.byCode[code] = i
	}
	return schema
}

func (s *Schema) Name() string { return s.name }

func (s *Schema) Version() int { return s.version }

func (s *Schema) Len() int { return len(s.symbols) }

// Code returns the integer code of a field name.
func (s *Schema) Code(name string) (uint64, bool) {
	i, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return s.symbols[i].Code, true
}

// Lookup returns the symbol registered under a code.
func (s *Schema) Lookup(code uint64) (Symbol, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return Symbol{}, false
	}
	return s.symbols[i], true
}

// Type returns the value type of a field name.
func (s *Schema) Type(name string) (ValueType, bool) {
	i, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return s.symbols[i].Type, true
}
