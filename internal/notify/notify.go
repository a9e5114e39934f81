package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

func Info(title, message string) error {
	return beeep.Notify(title, message, "")
}

func Done(message string) error {
	return beeep.Alert("Taskdeck", message, "")
}

// FormatReminder builds the notification for a due task reminder.
func FormatReminder(taskTitle, message string) (string, string) {
	title := "Task reminder"
	if taskTitle != "" {
		title = fmt.Sprintf("Reminder: %s", taskTitle)
	}
	if message == "" {
		message = "This task is waiting on you."
	}
	return title, message
}
