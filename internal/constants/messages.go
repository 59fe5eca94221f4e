package constants

const (
	UserBalanceUpdated = "user balance updated successfully"
	ItemCreated        = "item created successfully"
	ItemsSwept         = "expired items swept successfully"
	PurchaseCompleted  = "purchase completed successfully"
	BroadcastSent      = "broadcast finished"
	ProofSubmitted     = "payment proof submitted, waiting for review"
	ProofApproved      = "payment proof approved and balance credited"
	ProofRejected      = "payment proof rejected"
	SettingUpdated     = "setting updated successfully"
)

const (
	SettingPaymentKey       = "payment_key"
	SettingGreetingTemplate = "greeting_template"
)

const DefaultCustomerName = "Customer"

const CurrencySymbol = "R$"
