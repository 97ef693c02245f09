package models

// ProposalStatus константы статусов коммерческого предложения
const (
	ProposalStatusDraft    = "draft"
	ProposalStatusSent     = "sent"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
)

// ValidProposalStatuses список валидных статусов предложений
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusDraft:    {},
	ProposalStatusSent:     {},
	ProposalStatusAccepted: {},
	ProposalStatusRejected: {},
}

// ProposalStatusTransitions задаёт допустимые переходы статусов.
// Черновик можно отправить, отправленное - принять, отклонить или
// вернуть в черновик; принятые и отклонённые предложения финальны.
var ProposalStatusTransitions = map[string][]string{
	ProposalStatusDraft:    {ProposalStatusSent},
	ProposalStatusSent:     {ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusDraft},
	ProposalStatusAccepted: {},
	ProposalStatusRejected: {},
}

// ExportFormat константы форматов экспорта предложения
const (
	ExportFormatPDF      = "pdf"
	ExportFormatHTML     = "html"
	ExportFormatMarkdown = "markdown"
)

// ValidExportFormats список поддерживаемых форматов экспорта
var ValidExportFormats = map[string]struct{}{
	ExportFormatPDF:      {},
	ExportFormatHTML:     {},
	ExportFormatMarkdown: {},
}

// RoleOperator - единственная роль в системе: оператор CRM.
const RoleOperator = "operator"

// DefaultCurrency используется, если валюта не указана при создании.
const DefaultCurrency = "USD"

// DefaultValidityDays - срок действия предложения по умолчанию.
const DefaultValidityDays = 30
