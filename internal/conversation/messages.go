package conversation

// Messages is the user-facing text of the conversation. Fields ending in
// "Fmt" are fmt format strings.
type Messages struct {
	Welcome string

	AskPhone     string
	InvalidPhone string

	AskName   string
	EmptyName string

	AskNationalID     string
	InvalidNationalID string

	GreetingFmt    string
	AskDate        string
	InvalidDate    string
	PastDate       string
	AvailableDates string
	DateOptionFmt  string
	AskChoice      string
	InvalidChoice  string

	ConfirmHeader        string
	ConfirmNameFmt       string
	ConfirmNationalIDFmt string
	ConfirmPhoneFmt      string
	ConfirmDateFmt       string
	// AskConfirmationFmt receives the yes and no tokens.
	AskConfirmationFmt string
	// InvalidConfirmationFmt receives the yes and no tokens.
	InvalidConfirmationFmt string

	Booked       string
	AppendFailed string
}

// DefaultMessages returns the Portuguese catalogue.
func DefaultMessages() Messages {
	return Messages{
		Welcome: "Bem-vindo ao ConsultaBot! Como posso ajudar você hoje?",

		AskPhone:     "Por favor, digite seu número de telefone: ",
		InvalidPhone: "Formato de número de telefone inválido. Tente novamente.",

		AskName:   "Por favor, digite seu nome completo: ",
		EmptyName: "O nome não pode ficar em branco. Tente novamente.",

		AskNationalID:     "Seu CPF não foi encontrado. Por favor, digite seu CPF: ",
		InvalidNationalID: "CPF inválido. Tente novamente.",

		GreetingFmt:    "Olá, %s!",
		AskDate:        "Quando você gostaria de marcar o compromisso? (Formato: DD/MM/YYYY): ",
		InvalidDate:    "Formato de data inválido. Tente novamente.",
		PastDate:       "Por favor, insira uma data futura.",
		AvailableDates: "Datas disponíveis para compromisso:",
		DateOptionFmt:  "%d. %s",
		AskChoice:      "Escolha uma data (número): ",
		InvalidChoice:  "Opção inválida. Escolha um dos números da lista.",

		ConfirmHeader:          "Confirme os detalhes do compromisso:",
		ConfirmNameFmt:         "Nome: %s",
		ConfirmNationalIDFmt:   "CPF: %s",
		ConfirmPhoneFmt:        "Telefone: %s",
		ConfirmDateFmt:         "Data do Compromisso: %s",
		AskConfirmationFmt:     "Os detalhes estão corretos? (%s/%s): ",
		InvalidConfirmationFmt: "Opção inválida. Por favor, digite '%s' ou '%s'.",

		Booked:       "Compromisso marcado com sucesso! Aguardamos por você.",
		AppendFailed: "Erro ao adicionar compromisso. Por favor, tente novamente.",
	}
}
