package insights

import (
	"strings"
	"testing"
	"time"
)

func TestMakeClusterKey(t *testing.T) {
	key := MakeClusterKey(" Curso ", "camp1", "")
	want := "Curso" + clusterKeySeparator + "camp1" + clusterKeySeparator + clusterPlaceholder
	if string(key) != want {
		t.Fatalf("expected %q, got %q", want, key)
	}
}

func TestReduceClustersGroupsAndSorts(t *testing.T) {
	ds := newSalesDataset()
	rows := Apply(ds, NewFilterState(), time.Now())
	clusters := ReduceClusters(ds, rows, NewInMemoryInvestmentStore())

	if len(clusters) != 4 {
		t.Fatalf("expected 4 clusters, got %d", len(clusters))
	}
	for i := 1; i < len(clusters); i++ {
		prev, cur := clusters[i-1], clusters[i]
		if prev.Sales < cur.Sales {
			t.Fatalf("expected sale count descending, got %d before %d", prev.Sales, cur.Sales)
		}
		if prev.Sales == cur.Sales && prev.Revenue < cur.Revenue {
			t.Fatalf("expected revenue tiebreak descending")
		}
	}
	top := clusters[0]
	if top.Product != "Curso" || top.Campaign != "camp1" {
		t.Fatalf("unexpected top cluster %+v", top)
	}
	if top.Sales != 1 {
		// Each row lands in its own cluster here; the Curso/camp1/termo1
		// cluster wins the revenue tiebreak at 100.
		t.Fatalf("expected singleton clusters, got %d sales", top.Sales)
	}
}

func TestReduceClustersPlaceholdersForMissingDims(t *testing.T) {
	ds := newSalesDataset()
	rows := Apply(ds, NewFilterState(), time.Now())
	clusters := ReduceClusters(ds, rows, nil)

	var found bool
	for _, cluster := range clusters {
		if cluster.Product == "E-book" {
			found = true
			if cluster.Campaign != clusterPlaceholder || cluster.Term != clusterPlaceholder {
				t.Fatalf("expected placeholders, got %+v", cluster)
			}
			if !strings.Contains(string(cluster.Key), clusterPlaceholder) {
				t.Fatalf("expected placeholder inside key, got %q", cluster.Key)
			}
		}
	}
	if !found {
		t.Fatalf("expected the E-book cluster to exist")
	}
}

func TestReduceClustersMergesSameTriple(t *testing.T) {
	ds := NewDataset(DatasetInput{
		Headers: []string{"Data", "Produto", "Valor", "Campanha", "Termo"},
		Rows: []map[string]any{
			{"Data": "01/03/2024 09:00", "Produto": "Curso", "Valor": "100", "Campanha": "c", "Termo": "t"},
			{"Data": "01/03/2024 17:00", "Produto": "Curso", "Valor": "60", "Campanha": "c", "Termo": "t"},
			{"Data": "03/03/2024", "Produto": "Curso", "Valor": "40", "Campanha": "c", "Termo": "t"},
		},
	})
	clusters := ReduceClusters(ds, ds.Rows, nil)
	if len(clusters) != 1 {
		t.Fatalf("expected a single merged cluster, got %d", len(clusters))
	}
	cluster := clusters[0]
	if cluster.Sales != 3 {
		t.Fatalf("expected 3 sales, got %d", cluster.Sales)
	}
	almostEqual(t, 200, cluster.Revenue, "cluster revenue")
	if len(cluster.Dates) != 2 {
		t.Fatalf("expected 2 distinct date labels, got %v", cluster.Dates)
	}
	if cluster.Dates[0] != "01/03/2024" || cluster.Dates[1] != "03/03/2024" {
		t.Fatalf("expected sorted raw labels, got %v", cluster.Dates)
	}
}

func TestReduceClustersAppliesInvestmentEconomics(t *testing.T) {
	ds := NewDataset(DatasetInput{
		Headers: []string{"Produto", "Valor", "Campanha", "Termo"},
		Rows: []map[string]any{
			{"Produto": "Curso", "Valor": "100", "Campanha": "c", "Termo": "t"},
			{"Produto": "Curso", "Valor": "100", "Campanha": "c", "Termo": "t"},
		},
	})
	store := NewInMemoryInvestmentStore()
	key := MakeClusterKey("Curso", "c", "t")
	store.SetClusterInvestment(key, 50)

	clusters := ReduceClusters(ds, ds.Rows, store)
	if len(clusters) != 1 {
		t.Fatalf("expected one cluster, got %d", len(clusters))
	}
	cluster := clusters[0]
	if !cluster.InvestmentSet {
		t.Fatalf("expected investment to be marked set")
	}
	almostEqual(t, 50, cluster.Investment, "investment")
	almostEqual(t, 200*0.06, cluster.Tax, "tax")
	almostEqual(t, 200-50-200*0.06, cluster.Profit, "profit")
	almostEqual(t, 4, cluster.ROAS, "roas")
	almostEqual(t, 25, cluster.CPA, "cpa")
}

func TestReduceClustersPendingInvestment(t *testing.T) {
	ds := NewDataset(DatasetInput{
		Headers: []string{"Produto", "Valor"},
		Rows:    []map[string]any{{"Produto": "Curso", "Valor": "100"}},
	})
	clusters := ReduceClusters(ds, ds.Rows, NewInMemoryInvestmentStore())
	cluster := clusters[0]
	if cluster.InvestmentSet {
		t.Fatalf("expected pending investment")
	}
	almostEqual(t, 0, cluster.ROAS, "roas with pending investment")
	almostEqual(t, 0, cluster.CPA, "cpa with pending investment")
}

func TestReduceClustersExplicitZeroInvestment(t *testing.T) {
	ds := NewDataset(DatasetInput{
		Headers: []string{"Produto", "Valor"},
		Rows:    []map[string]any{{"Produto": "Curso", "Valor": "100"}},
	})
	store := NewInMemoryInvestmentStore()
	store.SetClusterInvestment(MakeClusterKey("Curso", "", ""), 0)
	clusters := ReduceClusters(ds, ds.Rows, store)
	if !clusters[0].InvestmentSet {
		t.Fatalf("expected explicit zero to be marked set")
	}
}
