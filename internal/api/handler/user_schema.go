package handler

// --- Request types ---

type updateUserRequest struct {
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1"`
	Age      *int    `json:"age,omitempty"      validate:"omitempty,gt=0"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type addSkillsRequest struct {
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
}
