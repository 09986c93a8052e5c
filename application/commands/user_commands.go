package commands

import "github.com/Labib591/zyra/pkg/utils"

// RegisterUserCommand creates a credential account
type RegisterUserCommand struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (c RegisterUserCommand) Validate() error {
	return utils.ValidateStruct(c)
}
