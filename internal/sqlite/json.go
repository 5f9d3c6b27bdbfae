package sqlite

// JSONL record structures. Each mirrors one SQLite table; field names match
// column names so the loader can map records to columns generically.

type definitionJSON struct {
	Behavior        string   `json:"behavior"`
	AttributeID     uint64   `json:"attribute_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Decimals        uint8    `json:"decimals"`
	MaxLevel        uint32   `json:"max_level,omitempty"`
	LadderParam     uint64   `json:"ladder_param,omitempty"`
	StageThresholds []uint64 `json:"stage_thresholds,omitempty"`
	StageValues     []uint64 `json:"stage_values,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type attachmentJSON struct {
	Behavior    string `json:"behavior"`
	AssetID     uint64 `json:"asset_id"`
	AttributeID uint64 `json:"attribute_id"`
	Value       uint64 `json:"value"`
	Level       uint32 `json:"level,omitempty"`
	Stage       uint32 `json:"stage,omitempty"`
	AnchorTick  uint64 `json:"anchor_tick,omitempty"`
	LastTick    uint64 `json:"last_tick,omitempty"`
	AttachedAt  string `json:"attached_at"`
	UpdatedAt   string `json:"updated_at"`
}

type approvalJSON struct {
	Behavior    string `json:"behavior"`
	FromAsset   uint64 `json:"from_asset"`
	AttributeID uint64 `json:"attribute_id"`
	ToAsset     uint64 `json:"to_asset"`
	CreatedAt   string `json:"created_at"`
}

// eventJSON carries seq so the journal order survives a reload.
type eventJSON struct {
	Seq          int    `json:"seq"`
	EventID      string `json:"event_id"`
	Behavior     string `json:"behavior"`
	Kind         string `json:"kind"`
	AssetID      uint64 `json:"asset_id"`
	AttributeID  uint64 `json:"attribute_id"`
	Counterparty uint64 `json:"counterparty,omitempty"`
	Value        uint64 `json:"value"`
	CreatedAt    string `json:"created_at"`
}

type assetJSON struct {
	AssetID   uint64 `json:"asset_id"`
	Creator   string `json:"creator"`
	URI       string `json:"uri"`
	Supply    uint64 `json:"supply"`
	CreatedAt string `json:"created_at"`
}

type balanceJSON struct {
	Account string `json:"account"`
	AssetID uint64 `json:"asset_id"`
	Amount  uint64 `json:"amount"`
}

type ledgerOperatorJSON struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
}

type grantJSON struct {
	Name      string `json:"name"`
	Token     string `json:"token"`
	CreatedAt string `json:"created_at"`
}

type settingJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
