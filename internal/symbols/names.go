package symbols

// Document header
const (
	DocVersion      = "document-version"
	Timestamp       = "timestamp"
	Sequence        = "sequence"
	LibraryName     = "library-name"
	LibraryVersion  = "library-version"
	DeviceType      = "gizmo-type"
	DeviceName      = "gizmo-name"
	DeviceVariant   = "gizmo-version"
	DeviceHwID      = "gizmo-id"
	DeviceClientID  = "gizmo-idClient"
	DeviceCaCard    = "gizmo-idCard"
	CustomerAmsID   = "sojourner-idFx"
	CustomerPanel   = "sojourner-idPanel"
	SoftwareVersion = "application-appVersionShort"
	Batch           = "batch"
)

// Device context
const (
	HardwareVersion    = "gizmo-fwVersion"
	OsVersion          = "gizmo-osVersion"
	DeviceModelID      = "gizmo-modelId"
	DeviceResets       = "gizmo-pwrcycle"
	DeviceUptime       = "gizmo-uptime"
	PvrCustFree        = "gizmo-storageCustSpaceLeft"
	PvrPvodFree        = "gizmo-storageProdSpaceLeft"
	PvrNumRecordings   = "gizmo-storageTotalRecordings"
	DisplayConnection  = "display-connection"
	DisplayName        = "display-edidName"
	DisplayMaker       = "display-edidIdManufacturer"
	DisplayBuildDate   = "display-edidBuildDate"
	DisplayOptimalRes  = "display-edidOptimalMaxResolution"
	DisplayHdrSupport  = "display-edidIdHdr"
	AppPostcode        = "application-postcode"
	AppDttRegion       = "application-dttRegion"
	AppRegionID        = "application-regionId"
	NetworkType        = "connectivity-connectionType"
	RcuVersion         = "rcu-version"
	RcuKeysPressed     = "rcu-keysPressed"
	UIVersion          = "application-id"
	EpgVersion         = "application-idSupplemental"
	EpgInstallDate     = "application-installDate"
	RcuType            = "rcu-type"
	PvrHddSize         = "gizmo-storageCapacity"
	DeviceTemperature  = "gizmo-temperature"
	TunerBer           = "tuner-ber"
	TunerCnr           = "tuner-cnr"
	TunerSignalLevel   = "tuner-signalLevel"
	LocationFlagSet    = "application-locationFlags"
	ApplicationFlagSet = "application-flags"
)

// Event header
const (
	EventKind       = "event-idClass"
	AppSessionID    = "behavioural-idSessionApp"
	UsageSessionID  = "behavioural-idSessionUsage"
	PageSessionID   = "behavioural-idSessionPage"
	DeviceContextID = "gizmo-deviceContextId"
	EventProperties = "properties"
	EventAction     = "navigation-action"
	UserInitiated   = "behavioural-userInitiated"
)

// Page
const (
	PageName     = "navigation-page"
	PreviousPage = "navigation-previousPage"
	PageFilter   = "navigation-filter"
	PageSort     = "navigation-sort"
)

// Content metadata
const (
	ContentProvider       = "metadata-contentProvider"
	ContentPromoChannel   = "metadata-channelProviderPromo"
	ContentProgramID      = "metadata-programmeId"
	ContentScheduleID     = "metadata-programmeEventId"
	ContentStartTime      = "metadata-programmeStartDateTime"
	ContentDuration       = "metadata-programmeDuration"
	ContentProgramTitle   = "metadata-programmeTitle"
	ContentEpisodeTitle   = "metadata-nameEpisode"
	ContentClassification = "metadata-programmeClassification"
	ContentResolution     = "metadata-resolution"
	ContentPrice          = "metadata-price"
)

// Media and player
const (
	ContentType           = "media-contentType"
	PlayerViewStatus      = "media-viewStatus"
	MediaEventSource      = "media-eventSource"
	MediaBookingSource    = "media-bookingSource"
	MediaRecordStart      = "media-recordStartTime"
	MediaDuration         = "media-duration"
	MediaRecordStatus     = "media-recordStatus"
	MediaExpiry           = "media-expiryDateTime"
	MediaExtendRecord     = "media-extendRecordDuration"
	MediaDownloadState    = "media-downloadState"
	MediaMaxViewedOffset  = "media-maxViewedOffset"
	PlayerViewingStart    = "player-viewingStartDateTime"
	PlayerTrickmodeSpeed  = "player-mediaSpeed"
	PlayerMediaOffset     = "player-mediaOffset"
	PlayerViewedDuration  = "player-mediaViewedDuration"
	PlayerAvgBitrateKbps  = "player-averageBitrateKbps"
	PlayerStartupMs       = "player-startupTime"
	PlayerBufferingMs     = "player-bufferingDuration"
	PlayerBufferingCount  = "player-bufferingCount"
	PlayerAbrShifts       = "player-abrShiftCount"
	PlayerJumpTo          = "player-jumpTo"
	ErrorMessage          = "behavioural-idMessageError"
	ErrorTechnicalMessage = "behavioural-idMessageErrorTechnical"
	DevicePowerStatus     = "gizmo-statusPower"
)

// Video output
const (
	DisplayOn            = "display-connected"
	DisplayDetectedHdr   = "display-detectedHDRCapability"
	DisplayNegHdmi       = "display-negotiatedHDMI"
	DisplayNegHdcp       = "display-negotiatedHDCP"
	DisplayNegResolution = "display-negotiatedResolution"
	DisplayNegFramerate  = "display-negotiatedFramerate"
	DisplayEdidHash      = "display-edidHash"
	DisplayEdidBlock     = "display-edidBlock"
)

// Selector and search
const (
	SelectorTrackID  = "navigation-selectorTrackId"
	SelectorType     = "navigation-selectorType"
	SelectorTitle    = "navigation-selectorTitle"
	SelectorRow      = "navigation-selectorRow"
	SelectorColumn   = "navigation-selectorColumn"
	ContentBrand     = "metadata-brand"
	TileLocked       = "navigation-locked"
	CollectionTitle  = "metadata-collectionTitle"
	CollectionSource = "metadata-collectionSource"
	SearchInitiator  = "navigation-searchResultType"
	SearchTerm       = "navigation-searchTerm"
	SearchScore      = "navigation-searchScore"
	AppName          = "application-name"
	AppProvider      = "application-provider"
	AppState         = "application-state"
	RebootType       = "gizmo-rebootType"
)

// Application configuration
const (
	ConfPinClassification = "application-pinClassification"
	ConfPinInfo           = "application-pinInfo"
	ConfPinNC             = "application-pinNC"
	ConfChannelBlocking   = "application-channelBlocking"
	ConfPinPurchase       = "application-pinPurchase"
	ConfPinProtectKeep    = "application-pinProtectKeep"
	ConfPinIPVideo        = "application-pinIPVideo"
	ConfPinAppLaunch      = "application-pinAppLaunch"
	ConfNumReminders      = "application-numScheduledReminders"
	ConfNumRecordings     = "application-numScheduledRecordings"
	ConfNumTeamLinks      = "application-numTeamLinks"
	ConfFavouritesSetup   = "application-favouritesConfigured"
	ConfDttSetup          = "application-dttConfigured"
	ConfEnergySaving      = "application-energySavingOn"
	ConfSpdifAudioMode    = "application-spdifAudioOutput"
	ConfHdmiAudioMode     = "application-hdmiAudioOutput"
	ConfDownloadHD        = "application-downloadHD"
	ConfStreamFromStore   = "application-streamFromStore"
	ConfCecPower          = "application-cecPower"
	ConfCecVolume         = "application-cecVolume"
)
