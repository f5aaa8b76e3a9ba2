package schema

// ContactForm is the public contact form of the marketing site.
type ContactForm struct {
	Name    string `json:"name"    validate:"required,min=2,max=120"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"omitempty,max=150"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

func (f *ContactForm) normalize() {
	f.Name = name(f.Name)
	f.Email = email(f.Email)
	f.Subject = collapse(f.Subject)
	f.Message = trimLines(f.Message)
}
