package model

// ImportRow is the loose, column-keyed shape of one spreadsheet row as it
// arrives at the import boundary. It never leaks past the row validator.
type ImportRow map[string]string

// FieldMapping maps a spreadsheet column name to an internal field name
// (customer_sequence, customer_name, transaction_sequence, cost_price,
// extra_price, total_amount, number_of_installments, start_date,
// image_url, pdf_url). Supplied by the caller alongside the rows.
type FieldMapping map[string]string

// Internal field names a mapping may target.
const (
	FieldCustomerSequence    = "customer_sequence"
	FieldCustomerName        = "customer_name"
	FieldTransactionSequence = "transaction_sequence"
	FieldCostPrice           = "cost_price"
	FieldExtraPrice          = "extra_price"
	FieldTotalAmount         = "total_amount"
	FieldInstallments        = "number_of_installments"
	FieldStartDate           = "start_date"
	FieldImageURL            = "image_url"
	FieldPDFURL              = "pdf_url"
)

// ImportError captures a rejected row. Row is 1-based and accounts for the
// header row, so the first data row that fails reports row 2.
type ImportError struct {
	Row          int       `json:"row"`
	Message      string    `json:"message"`
	OriginalData ImportRow `json:"original_data"`
}

// ImportSummary is the full result of a batch import. The batch always
// completes; no row is ever silently dropped.
type ImportSummary struct {
	Imported int            `json:"imported"`
	Errors   []ImportError  `json:"errors"`
	Records  []*Transaction `json:"records"`
}
