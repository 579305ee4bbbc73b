package model

// User 用户资料；likeCounter、作者字段以 ID 引用
type User struct {
	ID           string `json:"_id"`
	FullName     string `json:"fullName"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Feed         string `json:"feed"`
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }

// Public returns a copy safe to hand to clients.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
