package sqlite

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// encodeState converts st into JSONL records keyed by file name.
func encodeState(st types.State) (map[string][]json.RawMessage, error) {
	var (
		defs      []definitionJSON
		atts      []attachmentJSON
		approvals []approvalJSON
	)
	for _, m := range st.Engine.Modules {
		b := string(m.Behavior)
		for _, d := range m.Definitions {
			defs = append(defs, definitionJSON{
				Behavior:        b,
				AttributeID:     uint64(d.AttributeID),
				Name:            d.Name,
				Description:     d.Description,
				Decimals:        d.Decimals,
				MaxLevel:        d.MaxLevel,
				LadderParam:     d.LadderParam,
				StageThresholds: d.StageThresholds,
				StageValues:     d.StageValues,
				CreatedAt:       formatTime(d.CreatedAt),
			})
		}
		for _, a := range m.Attachments {
			atts = append(atts, attachmentJSON{
				Behavior:    b,
				AssetID:     uint64(a.AssetID),
				AttributeID: uint64(a.AttributeID),
				Value:       a.Value,
				Level:       a.Level,
				Stage:       a.Stage,
				AnchorTick:  a.AnchorTick,
				LastTick:    a.LastTick,
				AttachedAt:  formatTime(a.AttachedAt),
				UpdatedAt:   formatTime(a.UpdatedAt),
			})
		}
		for _, ap := range m.Approvals {
			approvals = append(approvals, approvalJSON{
				Behavior:    b,
				FromAsset:   uint64(ap.FromAsset),
				AttributeID: uint64(ap.AttributeID),
				ToAsset:     uint64(ap.ToAsset),
				CreatedAt:   formatTime(ap.CreatedAt),
			})
		}
	}

	events := make([]eventJSON, 0, len(st.Engine.Events))
	for i, e := range st.Engine.Events {
		events = append(events, eventJSON{
			Seq:          i + 1,
			EventID:      e.EventID,
			Behavior:     string(e.Behavior),
			Kind:         e.Kind,
			AssetID:      uint64(e.AssetID),
			AttributeID:  uint64(e.AttributeID),
			Counterparty: uint64(e.Counterparty),
			Value:        e.Value,
			CreatedAt:    formatTime(e.CreatedAt),
		})
	}

	assets := make([]assetJSON, 0, len(st.Ledger.Assets))
	for _, a := range st.Ledger.Assets {
		assets = append(assets, assetJSON{
			AssetID:   uint64(a.AssetID),
			Creator:   string(a.Creator),
			URI:       a.URI,
			Supply:    a.Supply,
			CreatedAt: formatTime(a.CreatedAt),
		})
	}
	balances := make([]balanceJSON, 0, len(st.Ledger.Balances))
	for _, bal := range st.Ledger.Balances {
		balances = append(balances, balanceJSON{
			Account: string(bal.Account),
			AssetID: uint64(bal.AssetID),
			Amount:  bal.Amount,
		})
	}
	operators := make([]ledgerOperatorJSON, 0, len(st.Ledger.Operators))
	for _, op := range st.Ledger.Operators {
		operators = append(operators, ledgerOperatorJSON{Owner: string(op.Owner), Operator: string(op.Operator)})
	}
	grants := make([]grantJSON, 0, len(st.Grants))
	for _, g := range st.Grants {
		grants = append(grants, grantJSON{Name: g.Name, Token: g.Token, CreatedAt: formatTime(g.CreatedAt)})
	}
	settings := []settingJSON{{Key: settingLedgerOwner, Value: string(st.Ledger.Owner)}}

	files := make(map[string][]json.RawMessage, len(jsonlTableMapping))
	var err error
	add := func(name string, recs []json.RawMessage, e error) {
		if err == nil && e != nil {
			err = errors.Wrapf(e, "encoding %s", name)
		}
		files[name] = recs
	}
	add(marshalInto(definitionsJSONL, defs))
	add(marshalInto(attachmentsJSONL, atts))
	add(marshalInto(approvalsJSONL, approvals))
	add(marshalInto(eventsJSONL, events))
	add(marshalInto(assetsJSONL, assets))
	add(marshalInto(balancesJSONL, balances))
	add(marshalInto(ledgerOperatorsJSONL, operators))
	add(marshalInto(grantsJSONL, grants))
	add(marshalInto(settingsJSONL, settings))
	if err != nil {
		return nil, err
	}
	return files, nil
}

func marshalInto[T any](name string, recs []T) (string, []json.RawMessage, error) {
	out, err := marshalRecords(recs)
	return name, out, err
}

// loadState rebuilds types.State from the SQLite tables.
func loadState(db *sql.DB) (types.State, error) {
	var st types.State
	modules := make(map[types.Behavior]*types.ModuleState)
	module := func(b string) *types.ModuleState {
		bh := types.Behavior(b)
		m, ok := modules[bh]
		if !ok {
			m = &types.ModuleState{Behavior: bh}
			modules[bh] = m
		}
		return m
	}

	err := eachRow(db, "SELECT behavior, attribute_id, name, description, decimals, max_level, ladder_param, stage_thresholds, stage_values, created_at FROM definitions", nil, func(r row) error {
		d := &types.Definition{
			Behavior:    types.Behavior(r.str(0)),
			AttributeID: types.AttributeID(r.u64(1)),
			Name:        r.str(2),
			Description: r.str(3),
			Decimals:    uint8(r.u64(4)),
			MaxLevel:    uint32(r.u64(5)),
			LadderParam: r.u64(6),
			CreatedAt:   r.time(9),
		}
		d.StageThresholds = r.u64s(7)
		d.StageValues = r.u64s(8)
		if r.err != nil {
			return r.err
		}
		m := module(r.str(0))
		m.Definitions = append(m.Definitions, d)
		return nil
	})
	if err != nil {
		return st, errors.Wrap(err, "loading definitions")
	}

	err = eachRow(db, "SELECT behavior, asset_id, attribute_id, value, level, stage, anchor_tick, last_tick, attached_at, updated_at FROM attachments", nil, func(r row) error {
		a := &types.Attachment{
			AssetID:     types.AssetID(r.u64(1)),
			AttributeID: types.AttributeID(r.u64(2)),
			Value:       r.u64(3),
			Level:       uint32(r.u64(4)),
			Stage:       uint32(r.u64(5)),
			AnchorTick:  r.u64(6),
			LastTick:    r.u64(7),
			AttachedAt:  r.time(8),
			UpdatedAt:   r.time(9),
		}
		if r.err != nil {
			return r.err
		}
		m := module(r.str(0))
		m.Attachments = append(m.Attachments, a)
		return nil
	})
	if err != nil {
		return st, errors.Wrap(err, "loading attachments")
	}

	err = eachRow(db, "SELECT behavior, from_asset, attribute_id, to_asset, created_at FROM approvals", nil, func(r row) error {
		ap := &types.Approval{
			FromAsset:   types.AssetID(r.u64(1)),
			AttributeID: types.AttributeID(r.u64(2)),
			ToAsset:     types.AssetID(r.u64(3)),
			CreatedAt:   r.time(4),
		}
		if r.err != nil {
			return r.err
		}
		m := module(r.str(0))
		m.Approvals = append(m.Approvals, ap)
		return nil
	})
	if err != nil {
		return st, errors.Wrap(err, "loading approvals")
	}

	for _, b := range types.Behaviors {
		if m, ok := modules[b]; ok {
			st.Engine.Modules = append(st.Engine.Modules, *m)
		}
	}

	if st.Engine.Events, err = queryEvents(db, EventFilter{}); err != nil {
		return st, err
	}
	if st.Ledger, err = loadLedger(db); err != nil {
		return st, err
	}

	err = eachRow(db, "SELECT name, token, created_at FROM grants ORDER BY name", nil, func(r row) error {
		g := types.Grant{Name: r.str(0), Token: r.str(1), CreatedAt: r.time(2)}
		st.Grants = append(st.Grants, g)
		return r.err
	})
	if err != nil {
		return st, errors.Wrap(err, "loading grants")
	}
	return st, nil
}

func loadLedger(db *sql.DB) (types.LedgerState, error) {
	var ls types.LedgerState

	err := eachRow(db, "SELECT value FROM settings WHERE key = ?", []any{settingLedgerOwner}, func(r row) error {
		ls.Owner = types.Account(r.str(0))
		return nil
	})
	if err != nil {
		return ls, errors.Wrap(err, "loading ledger owner")
	}

	err = eachRow(db, "SELECT asset_id, creator, uri, supply, created_at FROM assets", nil, func(r row) error {
		ls.Assets = append(ls.Assets, types.Asset{
			AssetID:   types.AssetID(r.u64(0)),
			Creator:   types.Account(r.str(1)),
			URI:       r.str(2),
			Supply:    r.u64(3),
			CreatedAt: r.time(4),
		})
		return r.err
	})
	if err != nil {
		return ls, errors.Wrap(err, "loading assets")
	}
	sort.Slice(ls.Assets, func(i, j int) bool { return ls.Assets[i].AssetID < ls.Assets[j].AssetID })

	err = eachRow(db, "SELECT account, asset_id, amount FROM balances", nil, func(r row) error {
		ls.Balances = append(ls.Balances, types.Balance{
			Account: types.Account(r.str(0)),
			AssetID: types.AssetID(r.u64(1)),
			Amount:  r.u64(2),
		})
		return r.err
	})
	if err != nil {
		return ls, errors.Wrap(err, "loading balances")
	}
	sort.Slice(ls.Balances, func(i, j int) bool {
		if ls.Balances[i].AssetID != ls.Balances[j].AssetID {
			return ls.Balances[i].AssetID < ls.Balances[j].AssetID
		}
		return ls.Balances[i].Account < ls.Balances[j].Account
	})

	err = eachRow(db, "SELECT owner, operator FROM ledger_operators ORDER BY owner, operator", nil, func(r row) error {
		ls.Operators = append(ls.Operators, types.OperatorApproval{
			Owner:    types.Account(r.str(0)),
			Operator: types.Account(r.str(1)),
		})
		return nil
	})
	if err != nil {
		return ls, errors.Wrap(err, "loading ledger operators")
	}
	return ls, nil
}

// queryEvents selects journal entries matching f in seq order.
func queryEvents(db *sql.DB, f EventFilter) ([]types.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.AssetID.Valid() {
		where = append(where, "(asset_id = ? OR counterparty = ?)")
		id := f.AssetID.String()
		args = append(args, id, id)
	}
	if f.Behavior != "" {
		where = append(where, "behavior = ?")
		args = append(args, string(f.Behavior))
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, f.Kind)
	}
	q := "SELECT event_id, behavior, kind, asset_id, attribute_id, counterparty, value, created_at FROM events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY seq"
	if f.Limit > 0 {
		q += " LIMIT " + strconv.Itoa(f.Limit)
	}

	var events []types.Event
	err := eachRow(db, q, args, func(r row) error {
		events = append(events, types.Event{
			EventID:      r.str(0),
			Behavior:     types.Behavior(r.str(1)),
			Kind:         r.str(2),
			AssetID:      types.AssetID(r.u64(3)),
			AttributeID:  types.AttributeID(r.u64(4)),
			Counterparty: types.AssetID(r.u64(5)),
			Value:        r.u64(6),
			CreatedAt:    r.time(7),
		})
		return r.err
	})
	if err != nil {
		return nil, errors.Wrap(err, "loading events")
	}
	return events, nil
}

// row is one result row with every column scanned as text. Conversion
// errors accumulate in err.
type row struct {
	cols []sql.NullString
	err  error
}

func (r *row) str(i int) string {
	return r.cols[i].String
}

func (r *row) u64(i int) uint64 {
	if !r.cols[i].Valid || r.cols[i].String == "" {
		return 0
	}
	v, err := strconv.ParseUint(r.cols[i].String, 10, 64)
	if err != nil && r.err == nil {
		r.err = errors.Wrapf(err, "column %d", i)
	}
	return v
}

func (r *row) u64s(i int) []uint64 {
	if !r.cols[i].Valid || r.cols[i].String == "" {
		return nil
	}
	var v []uint64
	if err := json.Unmarshal([]byte(r.cols[i].String), &v); err != nil && r.err == nil {
		r.err = errors.Wrapf(err, "column %d", i)
	}
	return v
}

func (r *row) time(i int) time.Time {
	if !r.cols[i].Valid || r.cols[i].String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, r.cols[i].String)
	if err != nil && r.err == nil {
		r.err = errors.Wrapf(err, "column %d", i)
	}
	return t
}

// eachRow runs query and calls fn for every row.
func eachRow(db *sql.DB, query string, args []any, fn func(r row) error) error {
	rows, err := db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	for rows.Next() {
		r := row{cols: make([]sql.NullString, len(cols))}
		dest := make([]any, len(cols))
		for i := range r.cols {
			dest[i] = &r.cols[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
