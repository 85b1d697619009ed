package events

import (
	"time"
)

var (
	t0      = time.Date(2019, 6, 12, 10, 0, 0, 0, time.UTC)
	started = t0.Add(-2 * time.Hour)
)

func ptr[T any](v T) *T { return &v }

func envelopeAt(offset time.Duration) Envelope {
	return Envelope{
		Timestamp:       t0.Add(offset),
		AppSession:      started,
		UsageSession:    started.Add(time.Minute),
		PageSession:     started.Add(2 * time.Minute),
		DeviceContextID: started.Unix(),
	}
}

func sampleProgramme() Programme {
	return Programme{
		Provider:       "FOX8",
		ProgramID:      "SIM-1001",
		ScheduleID:     "EVT-42",
		StartTime:      t0.Add(-30 * time.Minute),
		Duration:       3600,
		Title:          "The Simpsons",
		EpisodeTitle:   ptr("Homer's Odyssey"),
		Classification: "PG",
		Resolution:     "HD",
	}
}

// sampleEvents returns one populated value of every variant.
func sampleEvents() map[string]Event {
	track := []byte{0x8f, 0x01, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	page := ptr("home")

	return map[string]Event{
		"error message": &ErrorMessage{
			Envelope: envelopeAt(1), PageRef: PageRef{Page: page},
			Message: "F0001", TechnicalMessage: ptr("tuner lock lost"),
		},
		"end of file": &EndOfFile{Envelope: envelopeAt(2)},
		"power status": &PowerStatus{
			Envelope: envelopeAt(3), Status: PowerOn,
		},
		"reboot": &Reboot{Envelope: envelopeAt(4), Type: RebootUser},
		"code download": &CodeDownload{
			Envelope: envelopeAt(5), SoftwareVersion: "Q3.2.1", EpgVersion: ptr("epg-7"),
		},
		"application launch": &ApplicationLaunch{
			Envelope: envelopeAt(6), ContentProvider: "NFLX", AppName: "netflix",
			AppProvider: "Netflix", State: AppLaunch,
		},
		"live play": &LivePlay{
			Envelope: envelopeAt(7), TrackRef: TrackRef{TrackID: track},
			ViewingStart: t0, Programme: sampleProgramme(),
			ContentType: ContentTunerSub, ViewStatus: ViewViewed | ViewCaptions,
		},
		"recording": &Recording{
			Envelope: envelopeAt(8), Programme: sampleProgramme(),
			ContentType: ContentPVRRecord, BookingSource: BookingSeriesRecording,
			EventSource: SourceBackgroundRecording, RecordStart: t0.Add(-time.Hour),
			RecordDuration: 3600, RecordStatus: RecordingPartial | RecordingSignalLoss,
			Expiry: t0.Add(30 * 24 * time.Hour),
		},
		"playback": &Playback{
			Envelope: envelopeAt(9), TrackRef: TrackRef{TrackID: track},
			ViewingStart: t0, Programme: sampleProgramme(),
			ContentType: ContentPVRRecordSub, ViewStatus: ViewViewed,
			BookingSource: BookingEPGFuture, EventSource: SourceReviewBufferRecording,
			RecordStart: t0.Add(-time.Hour), RecordDuration: 1800,
			MediaOffset: 120, TrickmodeSpeed: -4,
		},
		"viewing stop": &ViewingStop{
			Envelope: envelopeAt(10), ViewingStart: t0, Programme: sampleProgramme(),
			ContentType: ContentABRSVOD, ViewStatus: ViewPinAccess,
			BookingSource: ptr(BookingRemote), EventSource: ptr(SourceBackgroundRecording),
			RecordStart: ptr(t0.Add(-time.Hour)), RecordDuration: ptr(int64(900)),
			MediaOffset: 600, ViewedDuration: 540,
			QoS: QoS{AvgBitrateKbps: ptr(int64(7800)), StartupMs: ptr(int64(950)), AbrShifts: ptr(int64(3))},
		},
		"viewing stop live": &ViewingStop{
			Envelope: envelopeAt(11), ViewingStart: t0, Programme: sampleProgramme(),
			ContentType: ContentTunerSub, MediaOffset: 0, ViewedDuration: 60,
		},
		"video output on": &VideoOutput{
			Envelope: envelopeAt(12), DisplayOn: true,
			DetectedHDR: ptr("HDR10"), NegotiatedHDMI: ptr("2.0"), NegotiatedHDCP: ptr("2.2"),
			NegotiatedResolution: ptr("2160p"), NegotiatedFramerate: ptr("50"),
			EdidHash: ptr("c0ffee"), EdidBlock: []byte{0x00, 0xff, 0xff},
		},
		"video output off": &VideoOutput{Envelope: envelopeAt(13)},
		"page view": &PageView{
			Envelope: envelopeAt(14), Name: "guide", PreviousPage: page,
			Filter: ptr("sport"), Sort: ptr("az"),
		},
		"selector content": &SelectorContent{
			Envelope: envelopeAt(15), PageRef: PageRef{Page: page}, TrackRef: TrackRef{TrackID: track},
			Type: "tile", Title: "Continue Watching", Row: "1",
			ProgramID: "SIM-1001", ProgramTitle: "The Simpsons", Brand: "Simpsons", TileLocked: true,
		},
		"selector collection": &SelectorCollection{
			Envelope: envelopeAt(16), PageRef: PageRef{Page: page},
			Type: "tile", Title: "Comedy", Row: "2", Column: "4",
			CollectionTitle: "Animated", CollectionSource: "editorial",
		},
		"book action": &BookAction{
			Envelope: envelopeAt(17), PageRef: PageRef{Page: page}, UserInitiated: true,
			Provider: "FOX8", ProgramID: "SIM-1001", ScheduleID: "EVT-42", StartTime: t0,
			Title: "The Simpsons", EpisodeTitle: ptr("Bart the Genius"), Classification: "PG",
			Resolution: "HD", ContentType: ContentTunerSubRecord, BookingSource: BookingTeamRecording,
			EventSource: SourceBackgroundRecording, RecordStart: t0, ExtendDuration: 300,
		},
		"watch action": &WatchAction{
			Envelope: envelopeAt(18), PageRef: PageRef{Page: page},
			ProgramID: "SIM-1001", Title: "The Simpsons", ContentType: ContentABRLive,
		},
		"download action": &DownloadAction{
			Envelope: envelopeAt(19), UserInitiated: true, Provider: "FOX8",
			ProgramID: "SIM-1001", ScheduleID: "EVT-42", Title: "The Simpsons",
			Classification: "PG", Resolution: "SD", ContentType: ContentPDLSVOD, State: DownloadComplete,
		},
		"delete action": &DeleteAction{
			Envelope: envelopeAt(20), PageRef: PageRef{Page: page}, UserInitiated: true,
			Programme: sampleProgramme(), ContentType: ContentPVRRecord,
			BookingSource: BookingEPGCurrent, EventSource: SourceBackgroundRecording,
			RecordStart: t0.Add(-time.Hour), RecordDuration: 3600,
			RecordStatus: RecordingWatched, Expiry: t0.Add(time.Hour), MaxViewedOffset: 3500,
		},
		"keep action": &KeepAction{
			Envelope: envelopeAt(21), Programme: sampleProgramme(),
			ContentType: ContentPVRRecordPPV, BookingSource: BookingBookablePromo,
		},
		"upgrade action": &UpgradeAction{
			Envelope: envelopeAt(22), PageRef: PageRef{Page: page}, Provider: "FOX8",
			ProgramID: "SIM-1001", ScheduleID: "EVT-42", StartTime: t0,
			Title: "The Simpsons", Resolution: "UHD", ContentType: ContentABRTVOD,
		},
		"rent action": &RentAction{
			Envelope: envelopeAt(23), ProgramID: "MOV-9", Title: "Heat",
			Resolution: "HD", ContentType: ContentABRTVOD, Price: 699,
		},
		"next episode action": &NextEpisodeAction{
			Envelope: envelopeAt(24), PageRef: PageRef{Page: page}, Provider: "FOX8",
			ProgramID: "SIM-1002", ScheduleID: "EVT-43", StartTime: t0, Title: "The Simpsons",
			Classification: "PG", Resolution: "HD", ContentType: ContentABRREPG,
		},
		"jump action": &JumpAction{
			Envelope: envelopeAt(25), PageRef: PageRef{Page: page}, JumpTo: JumpBookmark,
		},
		"search query": &SearchQuery{
			Envelope: envelopeAt(26), PageRef: PageRef{Page: page},
			Initiator: SearchVoice, Term: "simpsons", Score: "0.93",
		},
		"device context": &DeviceContext{
			Envelope: envelopeAt(27), HardwareVersion: "HW-2", OsVersion: "linux-4.9",
			Temperature: 54, Resets: 3, Uptime: 86400, PvrHddSize: 1000, PvrCustFree: 40,
			PvrPvodFree: 80, PvrNumRecordings: 12, DisplayConnection: "HDMI",
			DisplayName: "KD-55", DisplayMaker: "SNY", DisplayBuildDate: "2017-12",
			DisplayOptimalRes: "2160p", DisplayHdrSupport: "HDR10", TunerBer: 1, TunerCnr: 12,
			TunerSignalLevel: 78, Network: NetworkWireless, RcuVersion: "rcu-3",
			RcuKeysPressed: []byte{0x01, 0x02}, UIVersion: "ui-5", EpgVersion: "epg-7",
			EpgInstallDate: t0.Add(-48 * time.Hour), LocationFlags: []byte{0x80},
			ApplicationFlags: []byte{0x01, 0x00}, ModelID: ptr("iQ3"), Postcode: ptr("2000"),
		},
		"application config": &ApplicationConfig{
			Envelope: envelopeAt(28), PinClassification: "M", PinInfo: "on",
			PinNoClassification: true, ChannelBlocking: true, PinOnPurchase: true,
			NumReminders: 2, NumRecordings: 5, NumTeamLinks: 1, FavouritesSetup: true,
			SpdifAudioMode: "dolby", HdmiAudioMode: "auto", DownloadHD: true,
			CecPower: ptr(true),
		},
	}
}
