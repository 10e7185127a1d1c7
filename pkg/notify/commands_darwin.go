package notify

import (
	"fmt"
	"strconv"
	"strings"
)

func notificationCommand(message, title string) (string, []string) {
	script := fmt.Sprintf("display notification %s with title %s", appleScriptString(message), appleScriptString(title))
	return "osascript", []string{"-e", script}
}

func speechCommand(text, voice string, rate int) (string, []string) {
	return "say", []string{"-v", voice, "-r", strconv.Itoa(rate), text}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
