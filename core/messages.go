package core

// Messages are the fixed user-facing literals. They are supplied through
// configuration (config/agora.ini) because their exact wording is part of
// the HTTP contract and must be reproducible without a rebuild.
type Messages struct {
	LoginFailed          string
	PasswordsDontMatch   string
	UserExists           string
	OnlyCreatorMayUpdate string
	MustJoinToPost       string
	InviteNoSuchUser     string
	InviteAlreadyMember  string
	InviteDone           string
}

// MessagesFromConfig picks the message literals out of a flat key-value
// configuration, as loaded by util.Ini.
func MessagesFromConfig(cfg map[string]string) Messages {
	return Messages{
		LoginFailed:          cfg["login_error"],
		PasswordsDontMatch:   cfg["registration_passwords_error"],
		UserExists:           cfg["registration_user_exists_error"],
		OnlyCreatorMayUpdate: cfg["update_error"],
		MustJoinToPost:       cfg["must_join_error"],
		InviteNoSuchUser:     cfg["invite_no_user"],
		InviteAlreadyMember:  cfg["invite_already_member"],
		InviteDone:           cfg["invite_done"],
	}
}
