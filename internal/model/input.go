package model

// UserInput — данные формы пользователя в админ-панели.
// Пустой Password при редактировании означает «не менять».
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ProfileInput — данные формы профиля текущего пользователя.
// AvatarFile — путь к локальному файлу, который клиент загружает multipart-запросом.
type ProfileInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Avatar          string `json:"avatar,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
	AvatarFile      string `json:"-"`
}
