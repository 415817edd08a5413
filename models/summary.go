// models/summary.go
package models

// SummaryBucket is one grouping row in a sales summary.
type SummaryBucket struct {
	Litres float64 `json:"litres"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// SalesSummary is the rollup of a set of sales: totals, payment split and
// groupings by fuel type and pump.
type SalesSummary struct {
	TotalSales      int                       `json:"totalSales"`
	TotalLitres     float64                   `json:"totalLitres"`
	TotalAmount     float64                   `json:"totalAmount"`
	CashAmount      float64                   `json:"cashAmount"`
	CardAmount      float64                   `json:"cardAmount"`
	CreditAmount    float64                   `json:"creditAmount"`
	SalesByFuelType map[string]*SummaryBucket `json:"salesByFuelType"`
	SalesByPump     map[string]*SummaryBucket `json:"salesByPump"`
}

// SummarizeSales folds sales into a SalesSummary. Sales must have
// Nozzle.FuelType and Nozzle.Pump preloaded for the groupings.
func SummarizeSales(sales []Sale) SalesSummary {
	summary := SalesSummary{
		TotalSales:      len(sales),
		SalesByFuelType: map[string]*SummaryBucket{},
		SalesByPump:     map[string]*SummaryBucket{},
	}

	for _, sale := range sales {
		summary.TotalLitres += sale.LitresDispensed
		summary.TotalAmount += sale.TotalAmount

		switch sale.PaymentMethod {
		case PaymentCash:
			summary.CashAmount += sale.TotalAmount
		case PaymentCard:
			summary.CardAmount += sale.TotalAmount
		case PaymentCredit:
			summary.CreditAmount += sale.TotalAmount
		}

		fuel := sale.Nozzle.FuelType.Name
		if summary.SalesByFuelType[fuel] == nil {
			summary.SalesByFuelType[fuel] = &SummaryBucket{}
		}
		summary.SalesByFuelType[fuel].Litres += sale.LitresDispensed
		summary.SalesByFuelType[fuel].Amount += sale.TotalAmount
		summary.SalesByFuelType[fuel].Count++

		pump := sale.Nozzle.Pump.PumpNumber
		if summary.SalesByPump[pump] == nil {
			summary.SalesByPump[pump] = &SummaryBucket{}
		}
		summary.SalesByPump[pump].Litres += sale.LitresDispensed
		summary.SalesByPump[pump].Amount += sale.TotalAmount
		summary.SalesByPump[pump].Count++
	}

	return summary
}
