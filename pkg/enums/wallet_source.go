package enums

import "fmt"

// WalletTransactionSource records what produced a wallet ledger entry.
type WalletTransactionSource string

const (
	WalletSourceOrderPayment WalletTransactionSource = "order_payment"
	WalletSourceOrderRefund  WalletTransactionSource = "order_refund"
	WalletSourceTopUp        WalletTransactionSource = "topup"
	WalletSourceAdjustment   WalletTransactionSource = "adjustment"
)

var validWalletSources = []WalletTransactionSource{
	WalletSourceOrderPayment,
	WalletSourceOrderRefund,
	WalletSourceTopUp,
	WalletSourceAdjustment,
}

// String implements fmt.Stringer.
func (w WalletTransactionSource) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WalletTransactionSource.
func (w WalletTransactionSource) IsValid() bool {
	for _, candidate := range validWalletSources {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWalletTransactionSource converts raw input into a WalletTransactionSource.
func ParseWalletTransactionSource(value string) (WalletTransactionSource, error) {
	for _, candidate := range validWalletSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet transaction source %q", value)
}
