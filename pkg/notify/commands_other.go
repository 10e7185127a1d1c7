//go:build !darwin

package notify

import (
	"strconv"
)

// Voice names are macOS specific; espeak gets the language instead.
const espeakVoice = "ko"

func notificationCommand(message, title string) (string, []string) {
	return "notify-send", []string{"--urgency=critical", title, message}
}

func speechCommand(text, _ string, rate int) (string, []string) {
	return "espeak", []string{"-v", espeakVoice, "-s", strconv.Itoa(rate), text}
}
