package handler

import "conduit/internal/model"

// defaultImage is served when an account has no profile image set.
const defaultImage = "https://static.productionready.io/images/smiley-cyrus.jpg"

// userView shapes an account for the "user" envelope. Token fields are added
// by callers that have them.
func userView(account *model.Account) map[string]any {
	return map[string]any{
		"email":    account.Email,
		"username": account.Username,
		"bio":      account.Profile.Bio,
		"image":    profileImage(account.Profile),
	}
}

// profileView shapes an account for the "profile" envelope.
func profileView(account *model.Account) map[string]any {
	return map[string]any{
		"username": account.Username,
		"bio":      account.Profile.Bio,
		"image":    profileImage(account.Profile),
	}
}

func profileImage(p model.Profile) string {
	if p.Image != "" {
		return p.Image
	}
	return defaultImage
}
