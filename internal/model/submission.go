package model

// OrderSubmission is the order-creation request body. Field names match
// the form the field teams already submit.
type OrderSubmission struct {
	WithdrawalDate string  `json:"data_retirada" validate:"required"`
	Project        string  `json:"projeto"`
	Coordinator    string  `json:"coordenador"`
	Supervisor     string  `json:"supervisor"`
	TeamCode       string  `json:"equipe" validate:"required"`
	LeaderName     string  `json:"nome_lider"`
	Farm           string  `json:"fazenda"`
	MealType       string  `json:"tipo_refeicao" validate:"required"`
	ServiceCity    string  `json:"cidade_prestacao_servico"`
	Supplier       string  `json:"fornecedor" validate:"required"`
	UnitPrice      float64 `json:"valor_pago" validate:"gte=0"`
	WorkerNames    string  `json:"colaboradores_nomes"`
	TotalWorkers   int     `json:"total_colaboradores" validate:"required,min=1"`
	ToHire         int     `json:"a_contratar" validate:"min=0"`
	CardHolder     string  `json:"responsavel_cartao"`
	CardNumber     string  `json:"pagcorp"`
	Lodged         string  `json:"hospedado"`
	HotelName      string  `json:"nome_hotel"`
	NightlyRate    float64 `json:"valor_diaria" validate:"gte=0"`
	ApprovedBy     string  `json:"aprovado_por"`
	Notes          string  `json:"observacoes"`
	Closing        string  `json:"fechamento"`
}

// AttestationSubmission is the temperature-attestation request body.
// Both temperatures are required; times and images are optional, and the
// images are base64-encoded (optionally with a data-URI prefix).
type AttestationSubmission struct {
	WithdrawalTemp   *float64 `json:"temperatura_retirada" validate:"required"`
	ConsumptionTemp  *float64 `json:"temperatura_consumo" validate:"required"`
	WithdrawalTime   string   `json:"hora_retirada"`
	ConsumptionTime  string   `json:"hora_consumo"`
	WithdrawalImage  string   `json:"img_retirada"`
	ConsumptionImage string   `json:"img_consumo"`
	Notes            string   `json:"observacoes"`
}
