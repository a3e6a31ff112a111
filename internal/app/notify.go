package app

// Notifier receives user-facing toast messages. The frontend supplies a real
// implementation; tests record.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }
