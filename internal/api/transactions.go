package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/model"
)

// ListTransactions returns every transaction the backend reports. The
// backend is not paginated; if it starts paginating this only sees the
// first page.
func (c *Client) ListTransactions(ctx context.Context, cred *auth.Credential) ([]model.RemoteTransaction, error) {
	body, err := c.do(ctx, cred, http.MethodGet, "/transactions", nil, nil)
	if err != nil {
		return nil, err
	}

	var out []model.RemoteTransaction
	for _, raw := range normalizeList(body, "transactions") {
		var w transactionWire
		if err := json.Unmarshal(raw, &w); err != nil {
			c.log.Debug("skipping undecodable transaction", "err", err)
			continue
		}
		out = append(out, w.model())
	}
	return out, nil
}

// SubmitBatch posts recs as one batch for customerID and returns how many
// the backend saved. When a successful response carries no readable count,
// all items are assumed saved.
func (c *Client) SubmitBatch(ctx context.Context, cred *auth.Credential, customerID string, recs []model.ImportRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	req := batchRequest{CustomerID: customerID, Items: make([]BatchItem, 0, len(recs))}
	for _, rec := range recs {
		req.Items = append(req.Items, NewBatchItem(rec))
	}

	body, err := c.do(ctx, cred, http.MethodPost, "/transactions/batch", nil, req)
	if err != nil {
		return 0, err
	}

	var resp batchResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			// A bare array of created records is also a success.
			var list []json.RawMessage
			if json.Unmarshal(body, &list) == nil {
				return len(list), nil
			}
			c.log.Warn("unreadable batch response, assuming all saved", "customer_id", customerID, "items", len(recs), "err", err)
			return len(recs), nil
		}
	}
	if n, ok := resp.count(); ok {
		return n, nil
	}
	return len(recs), nil
}
