package insights

import (
	"sort"
	"strings"
)

const (
	// clusterKeySeparator joins the key dimensions; chosen so it will not
	// collide with real product/campaign/term text.
	clusterKeySeparator = "|#|"
	// clusterPlaceholder stands in for a missing key dimension. One fixed
	// string for all three dimensions.
	clusterPlaceholder = "N/A"
)

// ClusterKey identifies one (product, campaign, term) group.
type ClusterKey string

// MakeClusterKey composes the key from trimmed dimension values, defaulting
// missing dimensions to the placeholder.
func MakeClusterKey(product, campaign, term string) ClusterKey {
	return ClusterKey(strings.Join([]string{
		clusterDim(product),
		clusterDim(campaign),
		clusterDim(term),
	}, clusterKeySeparator))
}

func clusterDim(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return clusterPlaceholder
	}
	return trimmed
}

// ClusterRecord aggregates the rows sharing one cluster key. Investment comes
// from the externally held per-cluster map; InvestmentSet distinguishes an
// explicit zero from a pending (never entered) figure.
type ClusterRecord struct {
	Key      ClusterKey `json:"key"`
	Product  string     `json:"product"`
	Campaign string     `json:"campaign"`
	Term     string     `json:"term"`

	Sales   int      `json:"sales"`
	Revenue float64  `json:"revenue"`
	Dates   []string `json:"dates"`

	Investment    float64 `json:"investment"`
	InvestmentSet bool    `json:"investment_set"`
	Tax           float64 `json:"tax"`
	Profit        float64 `json:"profit"`
	ROAS          float64 `json:"roas"`
	CPA           float64 `json:"cpa"`
}

// ReduceClusters groups the filtered rows by cluster key in a single pass and
// attaches per-cluster economics. Output order: sale count descending, then
// revenue descending, then key ascending. (The upstream variants disagreed
// between count and revenue as the primary sort; count wins here.)
func ReduceClusters(ds *Dataset, rows []Row, investments InvestmentStore) []ClusterRecord {
	if ds == nil {
		return nil
	}
	roles := ds.Roles()
	byKey := make(map[ClusterKey]*ClusterRecord)
	dateSets := make(map[ClusterKey]map[string]struct{})

	for _, row := range rows {
		product := clusterDim(roleValue(row, roles.Product))
		campaign := clusterDim(roleValue(row, roles.Campaign))
		term := clusterDim(roleValue(row, roles.Term))
		key := MakeClusterKey(product, campaign, term)

		record, ok := byKey[key]
		if !ok {
			record = &ClusterRecord{
				Key:      key,
				Product:  product,
				Campaign: campaign,
				Term:     term,
			}
			byKey[key] = record
			dateSets[key] = map[string]struct{}{}
		}
		record.Sales++
		if roles.Revenue != "" {
			record.Revenue += cellNumber(row.Cells[roles.Revenue])
		}
		if roles.Date != "" {
			if label, ok := dateLabel(row.Cells[roles.Date]); ok {
				dateSets[key][label] = struct{}{}
			}
		}
	}

	out := make([]ClusterRecord, 0, len(byKey))
	for key, record := range byKey {
		record.Dates = sortedSet(dateSets[key])
		applyClusterEconomics(record, investments)
		out = append(out, *record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func applyClusterEconomics(record *ClusterRecord, investments InvestmentStore) {
	if investments != nil {
		record.Investment, record.InvestmentSet = investments.ClusterInvestment(record.Key)
	}
	record.Tax = record.Revenue * taxRate
	record.Profit = record.Revenue - record.Investment - record.Tax
	if record.Investment > 0 {
		record.ROAS = record.Revenue / record.Investment
	}
	if record.Sales > 0 {
		record.CPA = record.Investment / float64(record.Sales)
	}
}

func roleValue(row Row, header string) string {
	if header == "" {
		return ""
	}
	return cellString(row.Cells[header])
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
