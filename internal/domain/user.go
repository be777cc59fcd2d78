package domain

// User is the profile record mirrored from the server.
type User struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	FullName     string        `json:"fullname"`
	Email        string        `json:"email,omitempty"`
	MobileNumber string        `json:"mobile_number,omitempty"`
	PersonalInfo *PersonalInfo `json:"personal_information,omitempty"`
}

// ProfilePicture returns the avatar URL, falling back to the stock image the
// UI uses for accounts without one.
func (u *User) ProfilePicture() string {
	if u != nil && u.PersonalInfo != nil && u.PersonalInfo.ProfilePicture != "" {
		return u.PersonalInfo.ProfilePicture
	}
	return DefaultProfilePicture
}

const DefaultProfilePicture = "/images/default.jpg"

// PersonalInfo is the onboarding record created after signup.
type PersonalInfo struct {
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
	Website        string `json:"website"`
}

// FollowCounts are derived from the followers/following list lengths.
type FollowCounts struct {
	Followers int
	Following int
}

type LoginRequest struct {
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	MobileNumber string `json:"mobile_number,omitempty" validate:"omitempty,len=10,numeric"`
	Username     string `json:"username,omitempty" validate:"omitempty,username"`
	Password     string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Username     string `json:"username" validate:"required,username"`
	FullName     string `json:"fullname" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	MobileNumber string `json:"mobile_number,omitempty" validate:"omitempty,len=10,numeric"`
}

// AuthResponse is the payload of /login and /signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
