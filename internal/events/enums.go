package events

type PowerState string

const (
	PowerOn    PowerState = "PowerOn"
	StandbyIn  PowerState = "StandByIn"
	StandbyOut PowerState = "StandByOut"
)

type RebootType string

const (
	RebootOWM  RebootType = "OWM"
	RebootEMM  RebootType = "EMM"
	RebootUser RebootType = "button"
)

type AppState string

const (
	AppStart   AppState = "start"
	AppEnd     AppState = "end"
	AppLaunch  AppState = "launch"
	AppExit    AppState = "exit"
	AppSuspend AppState = "suspend"
	AppResume  AppState = "resume"
)

type DownloadState string

const (
	DownloadStart       DownloadState = "start"
	DownloadDownloading DownloadState = "downloading"
	DownloadComplete    DownloadState = "complete"
	DownloadPaused      DownloadState = "pause"
	DownloadFailed      DownloadState = "failed"
)

type JumpType string

const (
	JumpBookmark JumpType = "bookmark"
	JumpStart    JumpType = "start"
	JumpHalf     JumpType = "half"
	JumpEnd      JumpType = "end"
	JumpTime     JumpType = "time"
)

// ContentAction is the secondary discriminator of content-action events.
type ContentAction string

const (
	ActionBook        ContentAction = "book"
	ActionWatch       ContentAction = "watch"
	ActionDownload    ContentAction = "download"
	ActionDelete      ContentAction = "delete"
	ActionKeep        ContentAction = "keep"
	ActionUpgrade     ContentAction = "upgrade"
	ActionRent        ContentAction = "rent"
	ActionNextEpisode ContentAction = "nextEp"
	ActionJump        ContentAction = "jump"
)

type SearchType int64

const (
	SearchEPG          SearchType = 1
	SearchEPGPopular   SearchType = 2
	SearchEPGRecent    SearchType = 3
	SearchVoice        SearchType = 4
	SearchVoiceCommand SearchType = 5
)

type NetworkConnection int64

const (
	NetworkNone     NetworkConnection = 0
	NetworkEthernet NetworkConnection = 1
	NetworkWireless NetworkConnection = 2
)

// BookingSource is a bit set describing where a recording booking came from.
type BookingSource int64

const (
	BookingEPGFuture     BookingSource = 0x01
	BookingBookablePromo BookingSource = 0x02
	BookingLinked        BookingSource = 0x08
	BookingRemote        BookingSource = 0x10
	BookingTeamLink      BookingSource = 0x20
	BookingEPGCurrent    BookingSource = 0x40
	BookingSeriesLink    BookingSource = 0x80

	BookingSeriesRecording = BookingSeriesLink | BookingLinked | BookingEPGFuture
	BookingTeamRecording   = BookingTeamLink | BookingLinked | BookingEPGFuture
)

type EventSource int64

const (
	SourceBackgroundRecording   EventSource = 0
	SourceReviewBufferRecording EventSource = 1
)

// ViewStatus is a bit set describing how content was viewed.
type ViewStatus int64

const (
	ViewViewed    ViewStatus = 0x01
	ViewPinAccess ViewStatus = 0x20
	ViewCaptions  ViewStatus = 0x80
)

// RecordingStatus is a bit set describing the outcome of a recording.
type RecordingStatus int64

const (
	RecordingWatched    RecordingStatus = 0x01
	RecordingPartial    RecordingStatus = 0x02
	RecordingSignalLoss RecordingStatus = 0x04
	RecordingFailed     RecordingStatus = 0x08
	RecordingCAError    RecordingStatus = 0x10
	RecordingClash      RecordingStatus = 0x20
)

type ContentType int64

const (
	ContentTunerSub          ContentType = 2
	ContentTunerSubTrickmode ContentType = 3
	ContentTunerSubRecord    ContentType = 4
	ContentTunerPPV          ContentType = 5
	ContentTunerPPVTrickmode ContentType = 6
	ContentTunerPPVRecord    ContentType = 7

	ContentPVRRecord    ContentType = 21
	ContentPVRRecordSub ContentType = 22
	ContentPVRRecordPPV ContentType = 23

	ContentABRGeneric   ContentType = 41
	ContentABRLive      ContentType = 42
	ContentABRStartOver ContentType = 43
	ContentABRSVOD      ContentType = 44
	ContentABRREPG      ContentType = 45
	ContentABRTVOD      ContentType = 46

	ContentPDLGeneric ContentType = 51
	ContentPDLSVOD    ContentType = 53
	ContentPDLREPG    ContentType = 54
	ContentPDLTVOD    ContentType = 55
)

// Activity classes drive usage-session boundaries.
const (
	ActivityPlayer      = "player"
	ActivityStandby     = "standby"
	ActivityNavigation  = "navigation"
	ActivityApplication = "application"
)

var pageActivities = map[string]string{
	"miniGuide": ActivityPlayer,
	"player":    ActivityPlayer,
	"playNext":  ActivityPlayer,
	"standby":   ActivityStandby,
}

// PageActivityClass maps a page name to its activity class; unknown pages are navigation.
func PageActivityClass(page string) string {
	if class, ok := pageActivities[page]; ok {
		return class
	}
	return ActivityNavigation
}

// ApplicationPage is the synthetic page name used while an application has focus.
func ApplicationPage(appName string) string {
	return "app:" + appName
}
