package client

type profileResponse struct {
	UserID             string `json:"user_id"`
	PhoneVerified      bool   `json:"phone_verified"`
	IDDocumentVerified bool   `json:"id_document_verified"`
}

type bankAccountResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	IsDefault     bool   `json:"is_default"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
