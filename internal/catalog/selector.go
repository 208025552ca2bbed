package catalog

// SelectorState is the get-started widget state: which platform/service/
// quality the visitor is browsing, and the identifier they typed so far.
type SelectorState struct {
	Platform    Platform
	ServiceType ServiceType
	Quality     Quality
	Identifier  string
}

// SwitchPlatform changes the platform, resets the service type to likes, and
// clears any in-progress identifier and profile state tied to it.
func (s SelectorState) SwitchPlatform(p Platform) SelectorState {
	if p == s.Platform {
		return s
	}
	s.Platform = p
	s.ServiceType = ServiceLikes
	s.Identifier = ""
	return s
}

// SwitchService changes the service type, keeping the identifier when the new
// service is offered on the platform; otherwise it falls back to likes.
func (s SelectorState) SwitchService(t ServiceType) SelectorState {
	if !Offered(s.Platform, t) {
		t = ServiceLikes
	}
	s.ServiceType = t
	return s
}
