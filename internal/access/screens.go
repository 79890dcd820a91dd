package access

// Screen is a top-level view of the web app
type Screen string

const (
	ScreenLanding        Screen = "landing"
	ScreenAuth           Screen = "auth"
	ScreenDashboard      Screen = "dashboard"
	ScreenAdminDashboard Screen = "admin_dashboard"
)

// Event moves the app between screens
type Event string

const (
	EventGetStarted    Event = "get_started"
	EventBack          Event = "back"
	EventAuthenticated Event = "authenticated"
	EventSignedOut     Event = "signed_out"
)

// ScreenFor returns the screen a session should land on
func ScreenFor(authenticated, isAdmin bool) Screen {
	switch {
	case !authenticated:
		return ScreenLanding
	case isAdmin:
		return ScreenAdminDashboard
	default:
		return ScreenDashboard
	}
}

// Next returns the screen reached from current on event.
// Events that do not apply to the current screen leave it unchanged.
func Next(current Screen, event Event, isAdmin bool) Screen {
	switch event {
	case EventSignedOut:
		return ScreenLanding
	case EventAuthenticated:
		return ScreenFor(true, isAdmin)
	}

	switch current {
	case ScreenLanding:
		if event == EventGetStarted {
			return ScreenAuth
		}
	case ScreenAuth:
		if event == EventBack {
			return ScreenLanding
		}
	}
	return current
}

// ParseScreen validates a screen name
func ParseScreen(s string) (Screen, bool) {
	switch Screen(s) {
	case ScreenLanding, ScreenAuth, ScreenDashboard, ScreenAdminDashboard:
		return Screen(s), true
	}
	return "", false
}

// ParseEvent validates an event name
func ParseEvent(s string) (Event, bool) {
	switch Event(s) {
	case EventGetStarted, EventBack, EventAuthenticated, EventSignedOut:
		return Event(s), true
	}
	return "", false
}
