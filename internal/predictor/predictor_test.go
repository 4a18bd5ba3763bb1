package predictor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/logger"
)

type fakeChat struct {
	reply string
	err   error

	lastSystem string
	lastUser   string
}

func (f *fakeChat) Complete(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

func newTestGenerator(chat *fakeChat) *Generator {
	if chat == nil {
		return NewGenerator(nil, logger.NewNop(), nil)
	}
	return NewGenerator(chat, logger.NewNop(), nil)
}

func testArticle(title, source string, score float64, published time.Time) domain.NewsArticle {
	return domain.NewsArticle{
		Title:       title,
		URL:         "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		SourceName:  source,
		CrimeScore:  score,
		PublishedAt: published,
	}
}

func TestAnalyzeTrends_NoArticles(t *testing.T) {
	t.Helper()
	g := newTestGenerator(nil)

	trend := g.AnalyzeTrends(context.Background(), nil)

	if trend.TrendType != domain.TrendStable {
		t.Errorf("TrendType = %q, want %q", trend.TrendType, domain.TrendStable)
	}
	if len(trend.KeyInsights) != 1 || trend.KeyInsights[0] != "No significant crime data available for analysis" {
		t.Errorf("KeyInsights = %v, want the no-data insight", trend.KeyInsights)
	}
	if trend.StatisticalSummary.TotalArticles != 0 {
		t.Errorf("TotalArticles = %d, want 0", trend.StatisticalSummary.TotalArticles)
	}
	if trend.StatisticalSummary.AverageCrimeScore != 0.0 {
		t.Errorf("AverageCrimeScore = %v, want 0.0", trend.StatisticalSummary.AverageCrimeScore)
	}
}

func TestAnalyzeTrends_StatisticsBlock(t *testing.T) {
	t.Helper()
	g := newTestGenerator(nil) // no chat, so statistics degrade deterministically

	day := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	articles := []domain.NewsArticle{
		testArticle("Campus theft reported", "Tribune", 5.0, day.Add(48*time.Hour)),
		testArticle("Shooting near university", "Herald", 8.5, day),
		testArticle("Assault on Main Street", "Tribune", 3.1, day.Add(24*time.Hour)),
	}

	trend := g.AnalyzeTrends(context.Background(), articles)

	if trend.TrendType != domain.TrendStable {
		t.Errorf("TrendType = %q, want %q without an LLM", trend.TrendType, domain.TrendStable)
	}
	s := trend.StatisticalSummary
	if s.TotalArticles != 3 {
		t.Errorf("TotalArticles = %d, want 3", s.TotalArticles)
	}
	// (5.0 + 8.5 + 3.1) / 3 = 5.5333..., rounded to two decimals
	if s.AverageCrimeScore != 5.53 {
		t.Errorf("AverageCrimeScore = %v, want 5.53", s.AverageCrimeScore)
	}
	if s.UniqueSources != 2 {
		t.Errorf("UniqueSources = %d, want 2", s.UniqueSources)
	}
	if s.DateRange != "2026-08-20 to 2026-08-22" {
		t.Errorf("DateRange = %q, want oldest to newest", s.DateRange)
	}
	// Crime categories fall back to title classification in priority order.
	want := []string{"property", "violent", "assault"}
	if len(trend.CrimeCategories) != len(want) {
		t.Fatalf("CrimeCategories = %v, want %v", trend.CrimeCategories, want)
	}
	for i, c := range want {
		if trend.CrimeCategories[i] != c {
			t.Errorf("CrimeCategories[%d] = %q, want %q", i, trend.CrimeCategories[i], c)
		}
	}
}

func TestAnalyzeTrends_LLMSuccess(t *testing.T) {
	t.Helper()
	chat := &fakeChat{reply: "```json\n" + `{
		"trend_type": "increasing",
		"crime_categories": ["property", "drug"],
		"time_period": "past_week",
		"key_insights": ["Theft incidents concentrated near parking lots"]
	}` + "\n```"}
	g := newTestGenerator(chat)

	articles := []domain.NewsArticle{
		testArticle("Vehicle break-ins rising", "Gazette", 4.0, time.Now().UTC()),
	}
	trend := g.AnalyzeTrends(context.Background(), articles)

	if trend.TrendType != domain.TrendIncreasing {
		t.Errorf("TrendType = %q, want %q", trend.TrendType, domain.TrendIncreasing)
	}
	if len(trend.CrimeCategories) != 2 || trend.CrimeCategories[0] != "property" {
		t.Errorf("CrimeCategories = %v, want [property drug]", trend.CrimeCategories)
	}
	if len(trend.KeyInsights) != 1 {
		t.Errorf("KeyInsights = %v, want exactly the model insight", trend.KeyInsights)
	}
	if !strings.Contains(chat.lastUser, "ARTICLES DATA:") {
		t.Error("prompt should carry the article summaries")
	}
}

func TestAnalyzeTrends_RejectsUnknownTrendType(t *testing.T) {
	t.Helper()
	chat := &fakeChat{reply: `{"trend_type": "skyrocketing", "crime_categories": ["violent"], "time_period": "past_week", "key_insights": ["x"]}`}
	g := newTestGenerator(chat)

	trend := g.AnalyzeTrends(context.Background(), []domain.NewsArticle{
		testArticle("Stabbing downtown", "Post", 6.0, time.Now().UTC()),
	})
	if trend.TrendType != domain.TrendStable {
		t.Errorf("TrendType = %q, want %q for an unknown value", trend.TrendType, domain.TrendStable)
	}
}

func TestAnalyzeTrends_ParseFailureDegrades(t *testing.T) {
	t.Helper()
	chat := &fakeChat{reply: "sorry, I cannot produce JSON today"}
	g := newTestGenerator(chat)

	articles := []domain.NewsArticle{
		testArticle("Drug bust at dorm", "Courier", 5.5, time.Now().UTC()),
	}
	trend := g.AnalyzeTrends(context.Background(), articles)

	if trend.TrendType != domain.TrendStable {
		t.Errorf("TrendType = %q, want %q", trend.TrendType, domain.TrendStable)
	}
	if trend.StatisticalSummary.TotalArticles != 1 {
		t.Errorf("statistics block should survive a parse failure, got %+v", trend.StatisticalSummary)
	}
	if len(trend.KeyInsights) != 1 || !strings.Contains(trend.KeyInsights[0], "limited insights") {
		t.Errorf("KeyInsights = %v, want the degraded-analysis insight", trend.KeyInsights)
	}
}

func TestAnalyzeTrends_CallFailureDegrades(t *testing.T) {
	t.Helper()
	chat := &fakeChat{err: errors.New("anthropic: overloaded")}
	g := newTestGenerator(chat)

	articles := []domain.NewsArticle{
		testArticle("Theft at campus bookstore", "Herald", 4.0, time.Now().UTC()),
	}

	trend := g.AnalyzeTrends(context.Background(), articles)
	if trend.TrendType != domain.TrendStable {
		t.Errorf("TrendType = %q, want %q", trend.TrendType, domain.TrendStable)
	}
	// A failed call and an unparseable reply report different insights.
	if len(trend.KeyInsights) != 1 || !strings.Contains(trend.KeyInsights[0], "basic insights due to error") {
		t.Errorf("KeyInsights = %v, want the call-failure insight", trend.KeyInsights)
	}
	if !strings.Contains(trend.KeyInsights[0], "overloaded") {
		t.Errorf("KeyInsights = %v, want the underlying error message included", trend.KeyInsights)
	}
}

func TestExcerpt_RuneBoundary(t *testing.T) {
	t.Helper()

	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short ascii", "campus theft", 100, "campus theft"},
		{"exact limit", "abcd", 4, "abcd"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"multibyte kept whole", "abéf", 3, "ab"}, // é is 2 bytes; never split it
		{"multibyte fits", "abéf", 4, "abé"},
		{"cjk cut", "盗窃案", 4, "盗"}, // 3-byte runes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := excerpt(tt.in, tt.limit)
			if got != tt.want {
				t.Errorf("excerpt(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("excerpt(%q, %d) = %q is not valid UTF-8", tt.in, tt.limit, got)
			}
		})
	}
}

func TestGeneratePredictions_NoArticles(t *testing.T) {
	t.Helper()
	g := newTestGenerator(nil)

	preds := g.GeneratePredictions(context.Background(), nil, domain.TrendAnalysis{})
	if len(preds) != 1 {
		t.Fatalf("got %d predictions, want 1 default", len(preds))
	}
	p := preds[0]
	if p.ConfidenceLevel != domain.ConfidenceLow {
		t.Errorf("ConfidenceLevel = %q, want %q", p.ConfidenceLevel, domain.ConfidenceLow)
	}
	if p.CrimeType != "general" || p.LocationArea != "Campus Area" {
		t.Errorf("unexpected default prediction: %+v", p)
	}
	if p.ID == "" {
		t.Error("prediction should carry a generated ID")
	}
}

func TestGeneratePredictions_FallbackPicksCommonCrimeType(t *testing.T) {
	t.Helper()
	chat := &fakeChat{err: errors.New("model overloaded")}
	g := newTestGenerator(chat)

	now := time.Now().UTC()
	articles := []domain.NewsArticle{
		testArticle("Laptop theft at library", "A", 4.0, now),
		testArticle("Bike theft near gym", "B", 3.5, now),
		testArticle("Theft ring broken up", "C", 5.0, now),
	}
	preds := g.GeneratePredictions(context.Background(), articles, domain.TrendAnalysis{})

	if len(preds) != 3 {
		t.Fatalf("got %d predictions, want 3", len(preds))
	}
	if preds[0].CrimeType != "property" {
		t.Errorf("lead CrimeType = %q, want property", preds[0].CrimeType)
	}
	if preds[0].ConfidenceLevel != domain.ConfidenceLow {
		t.Errorf("lead ConfidenceLevel = %q, want low for few articles", preds[0].ConfidenceLevel)
	}
	if !strings.Contains(preds[0].PredictionText, "property crime risk") {
		t.Errorf("lead PredictionText = %q", preds[0].PredictionText)
	}
	if preds[1].LocationArea != "Academic Buildings" || preds[2].LocationArea != "Dormitory Complex" {
		t.Errorf("fixed fallback areas missing: %q, %q", preds[1].LocationArea, preds[2].LocationArea)
	}
	if len(preds[0].DataSources) != 3 || preds[0].DataSources[0] != "A" {
		t.Errorf("DataSources = %v, want first three source names", preds[0].DataSources)
	}
}

func TestGeneratePredictions_FallbackViolentMajority(t *testing.T) {
	t.Helper()
	g := newTestGenerator(nil)

	now := time.Now().UTC()
	articles := []domain.NewsArticle{
		testArticle("Assault outside stadium", "A", 5.0, now),
		testArticle("Violence erupts at rally", "B", 6.0, now),
		testArticle("Attack reported on trail", "C", 4.5, now),
		testArticle("Wallet theft at cafe", "D", 2.0, now),
		testArticle("Weather update", "E", 0.0, now),
		testArticle("Campus festival announced", "F", 0.0, now),
	}
	preds := g.GeneratePredictions(context.Background(), articles, domain.TrendAnalysis{})

	if preds[0].CrimeType != "violent" {
		t.Errorf("lead CrimeType = %q, want violent", preds[0].CrimeType)
	}
	if preds[0].ConfidenceLevel != domain.ConfidenceMedium {
		t.Errorf("lead ConfidenceLevel = %q, want medium for more than five articles", preds[0].ConfidenceLevel)
	}
}

func TestGeneratePredictions_LLMSuccessTruncatesToThree(t *testing.T) {
	t.Helper()
	chat := &fakeChat{reply: `[
		{"prediction_text": "p1", "confidence_level": "high", "crime_type": "property", "location_area": "Library Area", "risk_factors": ["r"], "preventive_measures": ["m"], "validity_days": 3},
		{"prediction_text": "p2", "confidence_level": "medium", "crime_type": "violent", "location_area": "Parking", "risk_factors": [], "preventive_measures": [], "validity_days": 7},
		{"prediction_text": "p3", "confidence_level": "low", "crime_type": "drug", "location_area": "Dorms", "risk_factors": [], "preventive_measures": [], "validity_days": 7},
		{"prediction_text": "p4", "confidence_level": "low", "crime_type": "general", "location_area": "Gym", "risk_factors": [], "preventive_measures": [], "validity_days": 7}
	]`}
	g := newTestGenerator(chat)
	g.now = func() time.Time { return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC) }

	articles := []domain.NewsArticle{
		testArticle("Campus theft", "One", 4.0, time.Now().UTC()),
		testArticle("Robbery downtown", "Two", 5.0, time.Now().UTC()),
	}
	preds := g.GeneratePredictions(context.Background(), articles, domain.TrendAnalysis{TrendType: domain.TrendStable})

	if len(preds) != 3 {
		t.Fatalf("got %d predictions, want 3", len(preds))
	}
	if preds[0].PredictionText != "p1" || preds[2].PredictionText != "p3" {
		t.Errorf("unexpected ordering: %q ... %q", preds[0].PredictionText, preds[2].PredictionText)
	}
	wantValid := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	if !preds[0].ValidUntil.Equal(wantValid) {
		t.Errorf("ValidUntil = %v, want %v", preds[0].ValidUntil, wantValid)
	}
	if len(preds[0].DataSources) != 2 || preds[0].DataSources[1] != "Two" {
		t.Errorf("DataSources = %v, want all available source names", preds[0].DataSources)
	}
}

func TestGeneratePredictions_ShortReplyToppedUp(t *testing.T) {
	t.Helper()
	chat := &fakeChat{reply: `[{"prediction_text": "only one", "confidence_level": "high", "crime_type": "property", "location_area": "Library Area"}]`}
	g := newTestGenerator(chat)

	preds := g.GeneratePredictions(context.Background(), []domain.NewsArticle{
		testArticle("Campus theft", "One", 4.0, time.Now().UTC()),
	}, domain.TrendAnalysis{})

	if len(preds) != 3 {
		t.Fatalf("got %d predictions, want 3", len(preds))
	}
	if preds[0].PredictionText != "only one" {
		t.Errorf("model prediction should lead, got %q", preds[0].PredictionText)
	}
}

func TestGeneratePredictions_DefaultsForMissingFields(t *testing.T) {
	t.Helper()
	chat := &fakeChat{reply: `[{}, {}, {"confidence_level": "certain"}]`}
	g := newTestGenerator(chat)

	preds := g.GeneratePredictions(context.Background(), []domain.NewsArticle{
		testArticle("Campus theft", "One", 4.0, time.Now().UTC()),
	}, domain.TrendAnalysis{})

	if preds[0].PredictionText != "Crime prediction generated" {
		t.Errorf("PredictionText = %q", preds[0].PredictionText)
	}
	if preds[0].ConfidenceLevel != domain.ConfidenceMedium {
		t.Errorf("ConfidenceLevel = %q, want medium default", preds[0].ConfidenceLevel)
	}
	if preds[2].ConfidenceLevel != domain.ConfidenceMedium {
		t.Errorf("unknown confidence should normalize to medium, got %q", preds[2].ConfidenceLevel)
	}
	if preds[0].CrimeType != "general" || preds[0].LocationArea != "Campus Area" {
		t.Errorf("unexpected defaults: %+v", preds[0])
	}
}

func TestGenerateSafetyTips_NoPredictions(t *testing.T) {
	t.Helper()
	g := newTestGenerator(nil)

	tips := g.GenerateSafetyTips(nil)
	if len(tips) != 5 {
		t.Fatalf("got %d tips, want the 5 baseline tips", len(tips))
	}
	if tips[0] != "Stay aware of your surroundings at all times" {
		t.Errorf("tips[0] = %q", tips[0])
	}
}

func TestGenerateSafetyTips_DedupAndCap(t *testing.T) {
	t.Helper()
	g := newTestGenerator(nil)

	preds := []domain.CrimePrediction{
		{PreventiveMeasures: []string{"Lock doors", "Improve lighting", "Lock doors"}},
		{PreventiveMeasures: []string{"Improve lighting", "Travel in groups", "Secure valuables"}},
	}
	tips := g.GenerateSafetyTips(preds)

	if len(tips) != maxSafetyTips {
		t.Fatalf("got %d tips, want %d", len(tips), maxSafetyTips)
	}
	seen := make(map[string]int)
	for _, tip := range tips {
		seen[tip]++
		if seen[tip] > 1 {
			t.Errorf("duplicate tip %q", tip)
		}
	}
	// Deduplicated measures come first, general tips fill the rest.
	if tips[0] != "Lock doors" || tips[3] != "Secure valuables" {
		t.Errorf("measures should lead: %v", tips[:4])
	}
	if tips[4] != "Stay alert and trust your instincts" {
		t.Errorf("tips[4] = %q, want first general tip", tips[4])
	}
}
