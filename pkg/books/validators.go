package books

type CreateBookPayload struct {
	Title       string `json:"title" mod:"trim" validate:"required,max=255"`
	Author      string `json:"author" mod:"trim" validate:"required,max=255"`
	Description string `json:"description" mod:"trim" validate:"required"`
	Genre       string `json:"genre" mod:"trim" validate:"required,max=100"`
}
