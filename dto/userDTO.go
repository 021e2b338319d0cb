package dto

import "taskmanager/model"

// UserResponse is the public face of a user. The password hash never leaves
// the server.
type UserResponse struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
	}
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=30"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}
