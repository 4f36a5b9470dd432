package ui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/dustin/go-humanize"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/config"
)

const appName = "ScreenPapers"

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name="+appName, title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("%s").Show($toast)
	`, title, message, appName)

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// Notifier sends desktop notifications for finished downloads. A nil
// sender or a disabled config turns every call into a no-op.
type Notifier struct {
	sender     NotificationSender
	onDownload bool
	onError    bool
}

// NewNotifier picks the sender for the current platform
func NewNotifier(cfg config.NotificationConfig) *Notifier {
	n := &Notifier{}
	if !cfg.Enabled {
		return n
	}
	n.onDownload = cfg.OnDownload
	n.onError = cfg.OnError

	switch runtime.GOOS {
	case "linux":
		n.sender = &LinuxNotificationSender{}
	case "darwin":
		n.sender = &MacOSNotificationSender{}
	case "windows":
		n.sender = &WindowsNotificationSender{}
	}
	return n
}

// NewNotifierWithSender is used by tests and callers with their own sender
func NewNotifierWithSender(sender NotificationSender, onDownload, onError bool) *Notifier {
	return &Notifier{sender: sender, onDownload: onDownload, onError: onError}
}

// Active reports whether calls will actually send anything
func (n *Notifier) Active() bool {
	return n != nil && n.sender != nil && (n.onDownload || n.onError)
}

// NotifyResult reports a single download
func (n *Notifier) NotifyResult(res downloader.Result) {
	if n == nil || n.sender == nil {
		return
	}

	switch {
	case res.Err != nil:
		if n.onError {
			_ = n.sender.Send("Download failed", fmt.Sprintf("%s: %v", res.Job.ImageID, res.Err))
		}
	case res.Skipped:
	default:
		if n.onDownload {
			_ = n.sender.Send("Wallpaper saved", fmt.Sprintf("%s (%s)", res.Path, humanize.Bytes(uint64(res.Bytes))))
		}
	}
}

// NotifySummary reports a batch once it is finished
func (n *Notifier) NotifySummary(s downloader.Summary) {
	if n == nil || n.sender == nil {
		return
	}

	if s.Failed > 0 && n.onError {
		_ = n.sender.Send("Downloads finished with errors",
			fmt.Sprintf("%d saved, %d failed", s.Saved, s.Failed))
		return
	}
	if n.onDownload {
		_ = n.sender.Send("Downloads finished",
			fmt.Sprintf("%d saved, %d skipped, %s", s.Saved, s.Skipped, humanize.Bytes(uint64(s.Bytes))))
	}
}
