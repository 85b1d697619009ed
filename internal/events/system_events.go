package events

import (
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

type ErrorMessage struct {
	Envelope
	PageRef
	Message          string `validate:"required"`
	TechnicalMessage *string
}

func (*ErrorMessage) Kind() Kind { return KindErrorMessage }

func (e *ErrorMessage) Pack() models.FieldMap {
	m := e.packEnvelope(KindErrorMessage, 3)
	e.packPage(&m)
	m.Set(symbols.ErrorMessage, e.Message)
	models.SetOpt(&m, symbols.ErrorTechnicalMessage, e.TechnicalMessage)
	return m
}

func unpackErrorMessage(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&ErrorMessage{
		Envelope:         r.envelope(),
		PageRef:          r.pageRef(),
		Message:          r.String(symbols.ErrorMessage),
		TechnicalMessage: r.OptString(symbols.ErrorTechnicalMessage),
	}, r)
}

// EndOfFile closes every batch. Its timestamp is the last buffered event's timestamp.
type EndOfFile struct {
	Envelope
}

func (*EndOfFile) Kind() Kind { return KindEndOfFile }

func (e *EndOfFile) Pack() models.FieldMap {
	return e.packEnvelope(KindEndOfFile, 0)
}

func unpackEndOfFile(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&EndOfFile{Envelope: r.envelope()}, r)
}

// NewEndOfFile builds the end marker for a batch whose last event happened at ts. Session
// fields stay null.
func NewEndOfFile(ts time.Time, deviceContextID int64) *EndOfFile {
	return &EndOfFile{Envelope: Envelope{Timestamp: ts, DeviceContextID: deviceContextID}}
}

type PowerStatus struct {
	Envelope
	Status PowerState `validate:"oneof=PowerOn StandByIn StandByOut"`
}

func (*PowerStatus) Kind() Kind { return KindPowerStatus }

func (e *PowerStatus) Pack() models.FieldMap {
	m := e.packEnvelope(KindPowerStatus, 1)
	m.Set(symbols.DevicePowerStatus, string(e.Status))
	return m
}

func unpackPowerStatus(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&PowerStatus{
		Envelope: r.envelope(),
		Status:   PowerState(r.String(symbols.DevicePowerStatus)),
	}, r)
}

type Reboot struct {
	Envelope
	Type RebootType `validate:"oneof=OWM EMM button"`
}

func (*Reboot) Kind() Kind { return KindReboot }

func (e *Reboot) Pack() models.FieldMap {
	m := e.packEnvelope(KindReboot, 1)
	m.Set(symbols.RebootType, string(e.Type))
	return m
}

func unpackReboot(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&Reboot{
		Envelope: r.envelope(),
		Type:     RebootType(r.String(symbols.RebootType)),
	}, r)
}

type CodeDownload struct {
	Envelope
	SoftwareVersion string `validate:"required"`
	EpgVersion      *string
}

func (*CodeDownload) Kind() Kind { return KindCodeDownload }

func (e *CodeDownload) Pack() models.FieldMap {
	m := e.packEnvelope(KindCodeDownload, 2)
	m.Set(symbols.SoftwareVersion, e.SoftwareVersion)
	models.SetOpt(&m, symbols.EpgVersion, e.EpgVersion)
	return m
}

func unpackCodeDownload(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&CodeDownload{
		Envelope:        r.envelope(),
		SoftwareVersion: r.String(symbols.SoftwareVersion),
		EpgVersion:      r.OptString(symbols.EpgVersion),
	}, r)
}

// VideoOutput reports the display link. Link details are only written while a display is
// connected.
type VideoOutput struct {
	Envelope
	DisplayOn            bool
	DetectedHDR          *string
	NegotiatedHDMI       *string
	NegotiatedHDCP       *string
	NegotiatedResolution *string
	NegotiatedFramerate  *string
	EdidHash             *string
	EdidBlock            []byte
}

func (*VideoOutput) Kind() Kind { return KindVideoOutput }

func (e *VideoOutput) Pack() models.FieldMap {
	m := e.packEnvelope(KindVideoOutput, 8)
	m.Set(symbols.DisplayOn, e.DisplayOn)
	if !e.DisplayOn {
		return m
	}
	models.SetNullable(&m, symbols.DisplayDetectedHdr, e.DetectedHDR)
	models.SetNullable(&m, symbols.DisplayNegHdmi, e.NegotiatedHDMI)
	models.SetNullable(&m, symbols.DisplayNegHdcp, e.NegotiatedHDCP)
	models.SetNullable(&m, symbols.DisplayNegResolution, e.NegotiatedResolution)
	models.SetNullable(&m, symbols.DisplayNegFramerate, e.NegotiatedFramerate)
	models.SetNullable(&m, symbols.DisplayEdidHash, e.EdidHash)
	if e.EdidBlock != nil {
		m.Set(symbols.DisplayEdidBlock, e.EdidBlock)
	}
	return m
}

func unpackVideoOutput(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	e := &VideoOutput{
		Envelope:  r.envelope(),
		DisplayOn: r.Bool(symbols.DisplayOn),
	}
	if e.DisplayOn {
		e.DetectedHDR = r.OptString(symbols.DisplayDetectedHdr)
		e.NegotiatedHDMI = r.OptString(symbols.DisplayNegHdmi)
		e.NegotiatedHDCP = r.OptString(symbols.DisplayNegHdcp)
		e.NegotiatedResolution = r.OptString(symbols.DisplayNegResolution)
		e.NegotiatedFramerate = r.OptString(symbols.DisplayNegFramerate)
		e.EdidHash = r.OptString(symbols.DisplayEdidHash)
		e.EdidBlock = r.Blob(symbols.DisplayEdidBlock)
	}
	return finish(e, r)
}

// DeviceContext is the diagnostic snapshot of the box. The engine keeps the latest one and
// writes it at the head of every batch instead of buffering it.
type DeviceContext struct {
	Envelope
	HardwareVersion   string `validate:"required"`
	OsVersion         string `validate:"required"`
	Temperature       int64
	Resets            int64 `validate:"min=0"`
	Uptime            int64 `validate:"min=0"`
	PvrHddSize        int64 `validate:"min=0"`
	PvrCustFree       int64 `validate:"min=0,max=100"`
	PvrPvodFree       int64 `validate:"min=0,max=100"`
	PvrNumRecordings  int64 `validate:"min=0"`
	DisplayConnection string
	DisplayName       string
	DisplayMaker      string
	DisplayBuildDate  string
	DisplayOptimalRes string
	DisplayHdrSupport string
	TunerBer          int64
	TunerCnr          int64
	TunerSignalLevel  int64
	Network           NetworkConnection `validate:"min=0,max=2"`
	RcuVersion        string
	RcuKeysPressed    []byte
	UIVersion         string
	EpgVersion        string
	EpgInstallDate    time.Time `validate:"required"`
	LocationFlags     []byte
	ApplicationFlags  []byte

	ModelID    *string
	RcuType    *string
	Postcode   *string
	DttRegion  *string
	RegionCode *string
}

func (*DeviceContext) Kind() Kind { return KindDeviceContext }

func (e *DeviceContext) Pack() models.FieldMap {
	m := e.packEnvelope(KindDeviceContext, 31)
	m.Set(symbols.HardwareVersion, e.HardwareVersion)
	m.Set(symbols.OsVersion, e.OsVersion)
	m.Set(symbols.DeviceTemperature, e.Temperature)
	m.Set(symbols.DeviceResets, e.Resets)
	m.Set(symbols.DeviceUptime, e.Uptime)
	m.Set(symbols.PvrHddSize, e.PvrHddSize)
	m.Set(symbols.PvrCustFree, e.PvrCustFree)
	m.Set(symbols.PvrPvodFree, e.PvrPvodFree)
	m.Set(symbols.PvrNumRecordings, e.PvrNumRecordings)
	m.Set(symbols.DisplayConnection, e.DisplayConnection)
	m.Set(symbols.DisplayName, e.DisplayName)
	m.Set(symbols.DisplayMaker, e.DisplayMaker)
	m.Set(symbols.DisplayBuildDate, e.DisplayBuildDate)
	m.Set(symbols.DisplayOptimalRes, e.DisplayOptimalRes)
	m.Set(symbols.DisplayHdrSupport, e.DisplayHdrSupport)
	m.Set(symbols.TunerBer, e.TunerBer)
	m.Set(symbols.TunerCnr, e.TunerCnr)
	m.Set(symbols.TunerSignalLevel, e.TunerSignalLevel)
	m.Set(symbols.NetworkType, int64(e.Network))
	m.Set(symbols.RcuVersion, e.RcuVersion)
	m.Set(symbols.RcuKeysPressed, e.RcuKeysPressed)
	m.Set(symbols.UIVersion, e.UIVersion)
	m.Set(symbols.EpgVersion, e.EpgVersion)
	m.Set(symbols.EpgInstallDate, e.EpgInstallDate)
	m.Set(symbols.LocationFlagSet, e.LocationFlags)
	m.Set(symbols.ApplicationFlagSet, e.ApplicationFlags)
	models.SetOpt(&m, symbols.DeviceModelID, e.ModelID)
	models.SetOpt(&m, symbols.RcuType, e.RcuType)
	models.SetOpt(&m, symbols.AppPostcode, e.Postcode)
	models.SetOpt(&m, symbols.AppDttRegion, e.DttRegion)
	models.SetOpt(&m, symbols.AppRegionID, e.RegionCode)
	return m
}

func unpackDeviceContext(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&DeviceContext{
		Envelope:          r.envelope(),
		HardwareVersion:   r.String(symbols.HardwareVersion),
		OsVersion:         r.String(symbols.OsVersion),
		Temperature:       r.Int(symbols.DeviceTemperature),
		Resets:            r.Int(symbols.DeviceResets),
		Uptime:            r.Int(symbols.DeviceUptime),
		PvrHddSize:        r.Int(symbols.PvrHddSize),
		PvrCustFree:       r.Int(symbols.PvrCustFree),
		PvrPvodFree:       r.Int(symbols.PvrPvodFree),
		PvrNumRecordings:  r.Int(symbols.PvrNumRecordings),
		DisplayConnection: r.String(symbols.DisplayConnection),
		DisplayName:       r.String(symbols.DisplayName),
		DisplayMaker:      r.String(symbols.DisplayMaker),
		DisplayBuildDate:  r.String(symbols.DisplayBuildDate),
		DisplayOptimalRes: r.String(symbols.DisplayOptimalRes),
		DisplayHdrSupport: r.String(symbols.DisplayHdrSupport),
		TunerBer:          r.Int(symbols.TunerBer),
		TunerCnr:          r.Int(symbols.TunerCnr),
		TunerSignalLevel:  r.Int(symbols.TunerSignalLevel),
		Network:           NetworkConnection(r.Int(symbols.NetworkType)),
		RcuVersion:        r.String(symbols.RcuVersion),
		RcuKeysPressed:    r.Blob(symbols.RcuKeysPressed),
		UIVersion:         r.String(symbols.UIVersion),
		EpgVersion:        r.String(symbols.EpgVersion),
		EpgInstallDate:    r.Time(symbols.EpgInstallDate),
		LocationFlags:     r.Blob(symbols.LocationFlagSet),
		ApplicationFlags:  r.Blob(symbols.ApplicationFlagSet),
		ModelID:           r.OptString(symbols.DeviceModelID),
		RcuType:           r.OptString(symbols.RcuType),
		Postcode:          r.OptString(symbols.AppPostcode),
		DttRegion:         r.OptString(symbols.AppDttRegion),
		RegionCode:        r.OptString(symbols.AppRegionID),
	}, r)
}

// ApplicationConfig reports user-facing settings: parental controls, audio output and
// download preferences.
type ApplicationConfig struct {
	Envelope
	PinClassification   string
	PinInfo             string
	PinNoClassification bool
	ChannelBlocking     bool
	PinOnPurchase       bool
	PinProtectKeep      bool
	PinIPVideo          bool
	PinAppLaunch        bool
	NumReminders        int64 `validate:"min=0"`
	NumRecordings       int64 `validate:"min=0"`
	NumTeamLinks        int64 `validate:"min=0"`
	FavouritesSetup     bool
	DttSetup            bool
	EnergySaving        bool
	SpdifAudioMode      string
	HdmiAudioMode       string
	DownloadHD          bool
	StreamFromStore     bool
	CecPower            *bool
	CecVolume           *bool
}

func (*ApplicationConfig) Kind() Kind { return KindApplicationConfig }

func (e *ApplicationConfig) Pack() models.FieldMap {
	m := e.packEnvelope(KindApplicationConfig, 20)
	m.Set(symbols.ConfPinClassification, e.PinClassification)
	m.Set(symbols.ConfPinInfo, e.PinInfo)
	m.Set(symbols.ConfPinNC, e.PinNoClassification)
	m.Set(symbols.ConfChannelBlocking, e.ChannelBlocking)
	m.Set(symbols.ConfPinPurchase, e.PinOnPurchase)
	m.Set(symbols.ConfPinProtectKeep, e.PinProtectKeep)
	m.Set(symbols.ConfPinIPVideo, e.PinIPVideo)
	m.Set(symbols.ConfPinAppLaunch, e.PinAppLaunch)
	m.Set(symbols.ConfNumReminders, e.NumReminders)
	m.Set(symbols.ConfNumRecordings, e.NumRecordings)
	m.Set(symbols.ConfNumTeamLinks, e.NumTeamLinks)
	m.Set(symbols.ConfFavouritesSetup, e.FavouritesSetup)
	m.Set(symbols.ConfDttSetup, e.DttSetup)
	m.Set(symbols.ConfEnergySaving, e.EnergySaving)
	m.Set(symbols.ConfSpdifAudioMode, e.SpdifAudioMode)
	m.Set(symbols.ConfHdmiAudioMode, e.HdmiAudioMode)
	m.Set(symbols.ConfDownloadHD, e.DownloadHD)
	m.Set(symbols.ConfStreamFromStore, e.StreamFromStore)
	models.SetOpt(&m, symbols.ConfCecPower, e.CecPower)
	models.SetOpt(&m, symbols.ConfCecVolume, e.CecVolume)
	return m
}

func unpackApplicationConfig(m models.FieldMap) (Event, error) {
	r := newFieldReader(m)
	return finish(&ApplicationConfig{
		Envelope:            r.envelope(),
		PinClassification:   r.String(symbols.ConfPinClassification),
		PinInfo:             r.String(symbols.ConfPinInfo),
		PinNoClassification: r.Bool(symbols.ConfPinNC),
		ChannelBlocking:     r.Bool(symbols.ConfChannelBlocking),
		PinOnPurchase:       r.Bool(symbols.ConfPinPurchase),
		PinProtectKeep:      r.Bool(symbols.ConfPinProtectKeep),
		PinIPVideo:          r.Bool(symbols.ConfPinIPVideo),
		PinAppLaunch:        r.Bool(symbols.ConfPinAppLaunch),
		NumReminders:        r.Int(symbols.ConfNumReminders),
		NumRecordings:       r.Int(symbols.ConfNumRecordings),
		NumTeamLinks:        r.Int(symbols.ConfNumTeamLinks),
		FavouritesSetup:     r.Bool(symbols.ConfFavouritesSetup),
		DttSetup:            r.Bool(symbols.ConfDttSetup),
		EnergySaving:        r.Bool(symbols.ConfEnergySaving),
		SpdifAudioMode:      r.String(symbols.ConfSpdifAudioMode),
		HdmiAudioMode:       r.String(symbols.ConfHdmiAudioMode),
		DownloadHD:          r.Bool(symbols.ConfDownloadHD),
		StreamFromStore:     r.Bool(symbols.ConfStreamFromStore),
		CecPower:            r.OptBool(symbols.ConfCecPower),
		CecVolume:           r.OptBool(symbols.ConfCecVolume),
	}, r)
}
