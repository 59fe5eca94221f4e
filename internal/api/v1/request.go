package v1

type AddItemRequest struct {
	Platform  string `json:"platform" validate:"required,max=64"`
	Slot      int    `json:"slot" validate:"required,min=1"`
	ExpiresOn string `json:"expires_on" validate:"required,datetime=2006-01-02"`
	Email     string `json:"email" validate:"omitempty,max=255"`
	Password  string `json:"password" validate:"omitempty,max=255"`
	Price     string `json:"price" validate:"omitempty,amount"`
}

type SweepRequest struct {
	AsOf string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

type PurchaseRequest struct {
	Buyer string `json:"buyer" validate:"required,phone"`
}

type UpdateBalanceRequest struct {
	Phone       string `json:"phone" validate:"required,phone"`
	Amount      string `json:"amount" validate:"required,amount"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type BroadcastRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type PaymentKeyRequest struct {
	Type   string `json:"type" validate:"required,max=32"`
	Key    string `json:"key" validate:"required,max=255"`
	Holder string `json:"holder" validate:"omitempty,max=255"`
}

type GreetingRequest struct {
	Text string `json:"text" validate:"required,max=2048"`
}

type UploadProofRequest struct {
	Phone  string `form:"phone" validate:"required,phone"`
	Amount string `form:"amount" validate:"omitempty,amount"`
}

type ApproveProofRequest struct {
	Amount string `json:"amount" validate:"omitempty,amount"`
}

type RejectProofRequest struct {
	Note string `json:"note" validate:"omitempty,max=255"`
}
