package ports

// OperationMetrics counts outcomes of ledger operations by name
// ("level_up", "buy_material", ...).
type OperationMetrics interface {
	RecordSuccess(op string)
	RecordConflict(op string)
	RecordFailure(op string)
}
