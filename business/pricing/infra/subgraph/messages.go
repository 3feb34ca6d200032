package subgraph

import (
	"encoding/json"
	"fmt"
)

// graphqlRequest is the wire format for a GraphQL POST.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlError is one entry of a GraphQL errors array.
type graphqlError struct {
	Message string `json:"message"`
}

// graphqlResponse is the wire envelope; Data stays raw until the caller
// decodes it into the query-specific shape.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

func (r *graphqlResponse) err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("graphql: %s", r.Errors[0].Message)
}

// poolRecord is one pool as the subgraph serves it. Wei amounts arrive as
// decimal strings; they can exceed 64 bits and must never touch floats.
type poolRecord struct {
	ID           string `json:"id"`
	Collection   string `json:"collection"`
	CurveType    string `json:"curveType"`
	PoolType     string `json:"poolType"`
	SpotPrice    string `json:"spotPrice"`
	Delta        string `json:"delta"`
	FeeBps       string `json:"feeBps"`
	NFTBalance   string `json:"nftBalance"`
	TokenBalance string `json:"tokenBalance"`
	Active       bool   `json:"active"`
}

// poolsData is the data shape of the pools query.
type poolsData struct {
	Pools []poolRecord `json:"pools"`
}

// poolsQuery fetches every pool for one collection. Paging is by id cursor;
// the subgraph caps page size at 1000.
const poolsQuery = `query Pools($collection: String!, $first: Int!, $lastID: String!) {
  pools(
    first: $first
    where: { collection: $collection, id_gt: $lastID }
    orderBy: id
    orderDirection: asc
  ) {
    id
    collection
    curveType
    poolType
    spotPrice
    delta
    feeBps
    nftBalance
    tokenBalance
    active
  }
}`
