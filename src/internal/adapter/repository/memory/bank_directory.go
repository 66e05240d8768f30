package memory

import (
	"context"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
)

// BankDirectory is the static list of destination banks.
type BankDirectory struct{}

func NewBankDirectory() *BankDirectory {
	return &BankDirectory{}
}

func (d *BankDirectory) GetAll(_ context.Context) ([]domain.Bank, error) {
	banks := []domain.Bank{
		{Name: domain.InternalBankName, Code: "999001"},
		{Name: "Access Bank", Code: "044001"},
		{Name: "First Bank of Nigeria", Code: "011001"},
		{Name: "Guaranty Trust Bank", Code: "058001"},
		{Name: "United Bank for Africa", Code: "033001"},
		{Name: "Zenith Bank", Code: "057001"},
		{Name: "Fidelity Bank", Code: "070001"},
		{Name: "Ecobank Nigeria", Code: "050001"},
		{Name: "Sterling Bank", Code: "232001"},
	}

	return banks, nil
}
