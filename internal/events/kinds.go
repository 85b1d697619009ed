package events

import "fmt"

// Kind is the stable numeric discriminator written into every event.
type Kind int64

const (
	KindErrorMessage      Kind = 1
	KindEndOfFile         Kind = 4
	KindPowerStatus       Kind = 8
	KindReboot            Kind = 9
	KindCodeDownload      Kind = 10
	KindApplicationLaunch Kind = 12
	KindLivePlay          Kind = 13
	KindRecording         Kind = 17
	KindPlayback          Kind = 18
	KindViewingStop       Kind = 21
	KindVideoOutput       Kind = 24
	KindPageView          Kind = 32
	KindSelector          Kind = 33
	KindContentAction     Kind = 34
	KindSearchQuery       Kind = 35
	KindDeviceContext     Kind = 64
	KindApplicationConfig Kind = 65

	// KindStop is reserved for the engine's shutdown sentinel and is never written to a batch.
	KindStop Kind = 0xFFFF
)

var kindNames = map[Kind]string{
	KindErrorMessage:      "error_message",
	KindEndOfFile:         "end_of_file",
	KindPowerStatus:       "power_status",
	KindReboot:            "reboot",
	KindCodeDownload:      "code_download",
	KindApplicationLaunch: "application_launch",
	KindLivePlay:          "live_play",
	KindRecording:         "recording",
	KindPlayback:          "playback",
	KindViewingStop:       "viewing_stop",
	KindVideoOutput:       "video_output",
	KindPageView:          "page_view",
	KindSelector:          "selector",
	KindContentAction:     "content_action",
	KindSearchQuery:       "search_query",
	KindDeviceContext:     "device_context",
	KindApplicationConfig: "application_config",
	KindStop:              "stop",
}

// String returns a metric-friendly name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind_%d", int64(k))
}
