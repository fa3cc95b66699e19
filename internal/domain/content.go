package domain

type SponsorLead struct {
	Nombre   string `json:"nombre" binding:"required"`
	Puesto   string `json:"puesto"`
	Empresa  string `json:"empresa" binding:"required"`
	Telefono string `json:"telefono"`
	Email    string `json:"email" binding:"required"`
	Nota     string `json:"nota"`
}

type Subscription struct {
	Email string `json:"email" binding:"required"`
}
