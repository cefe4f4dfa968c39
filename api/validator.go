package api

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateRoomRequest struct {
	ID           string `json:"id" validate:"required,min=1,max=64"`
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Kind         string `json:"kind" validate:"required,oneof=text voice"`
	RequiredRole string `json:"required_role" validate:"required,min=1,max=32"`
}

type AssignRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,min=1,max=32"`
}

func ValidateCreateRoom(req CreateRoomRequest) error {
	return validate.Struct(req)
}

func ValidateAssignRole(req AssignRoleRequest) error {
	return validate.Struct(req)
}
