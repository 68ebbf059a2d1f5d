package dto

import "time"

// ApplyTransactionRequest datos para aplicar una transacción de stock.
// Delta es firmado: positivo entrada, negativo salida. AllowNegative solo
// es válido en kind=adjustment y exige Reason.
type ApplyTransactionRequest struct {
	WarehouseID   string `json:"warehouse_id"`
	ProductID     string `json:"product_id"`
	Kind          string `json:"kind"` // inbound | outbound | adjustment
	Delta         int64  `json:"delta"`
	Reason        string `json:"reason"`
	AllowNegative bool   `json:"allow_negative"`
}

// BalanceResponse balance actual de una pareja (bodega, producto).
type BalanceResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
}

// TransactionResponse entrada del ledger expuesta por la API.
type TransactionResponse struct {
	ID                string    `json:"id"`
	WarehouseID       string    `json:"warehouse_id"`
	ProductID         string    `json:"product_id"`
	Kind              string    `json:"kind"`
	Delta             int64     `json:"delta"`
	ResultingQuantity int64     `json:"resulting_quantity"`
	Sequence          int64     `json:"sequence"`
	ActorID           string    `json:"actor_id"`
	Reason            string    `json:"reason,omitempty"`
	SaleID            *string   `json:"sale_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// LowStockResponse registro en o bajo su nivel de alerta.
type LowStockResponse struct {
	WarehouseID  string `json:"warehouse_id"`
	ProductID    string `json:"product_id"`
	Quantity     int64  `json:"quantity"`
	WarningLevel int64  `json:"warning_level"`
}

// ReconcileResponse resultado de la verificación de reconstrucción desde el
// log.
type ReconcileResponse struct {
	WarehouseID    string `json:"warehouse_id"`
	ProductID      string `json:"product_id"`
	RecordQuantity int64  `json:"record_quantity"`
	LedgerSum      int64  `json:"ledger_sum"`
	Repaired       bool   `json:"repaired"`
}
