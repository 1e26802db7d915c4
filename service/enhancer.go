package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"finance-advisor/config"
	"finance-advisor/domain"
	"finance-advisor/repository"
)

// markerPattern matches "LABEL: text", tolerating markdown bold around the label.
var markerPattern = regexp.MustCompile(`(?i)^\s*[*_]*\s*(TITLE|MESSAGE|ACTION|RECOMMENDATION)\s*[*_]*\s*:\s*[*_]*\s*(.*)$`)

const maxPromptField = 500

// EnhancementContext is the numeric context embedded in every prompt.
type EnhancementContext struct {
	Score           int
	TotalBalance    float64
	MonthlyExpenses float64
	SavingsRate     float64 // percent
}

// LLMEnhancer rewrites the leading insights and recommendations through a
// TextGenerator. Any failure leaves the original text in place.
type LLMEnhancer struct {
	generator TextGenerator
	cache     repository.CacheRepository
	count     int
	maxTokens int
	maxChars  int
}

func NewLLMEnhancer(
	generator TextGenerator,
	cache repository.CacheRepository,
	cfg *config.Config,
) *LLMEnhancer {
	if cache == nil {
		cache = repository.NoopCache{}
	}
	return &LLMEnhancer{
		generator: generator,
		cache:     cache,
		count:     cfg.EnhanceCount,
		maxTokens: cfg.GeneratorMaxTokens,
		maxChars:  cfg.EnhanceMaxChars,
	}
}

func (e *LLMEnhancer) Count() int {
	return e.count
}

// Enhance returns rewritten copies of insights and recs and whether any
// candidate was changed. The inputs are never modified. The backend is probed
// once; when it is unreachable the copies are returned untouched.
func (e *LLMEnhancer) Enhance(
	ctx context.Context,
	insights []domain.Insight,
	recs []string,
	ec EnhancementContext,
) ([]domain.Insight, []string, bool) {
	outInsights := slices.Clone(insights)
	outRecs := slices.Clone(recs)

	nInsights := min(e.count, len(outInsights))
	nRecs := min(e.count, len(outRecs))
	if nInsights == 0 && nRecs == 0 {
		return outInsights, outRecs, false
	}

	if !e.generator.Ping(ctx) {
		log.Printf("[%s] enhancer: generator unreachable, keeping deterministic output", RequestID(ctx))
		return outInsights, outRecs, false
	}

	changed := make([]bool, nInsights+nRecs)
	var wg sync.WaitGroup

	for i := 0; i < nInsights; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outInsights[i], changed[i] = e.enhanceInsight(ctx, outInsights[i], ec)
		}(i)
	}
	for i := 0; i < nRecs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outRecs[i], changed[nInsights+i] = e.enhanceRecommendation(ctx, outRecs[i], ec)
		}(i)
	}
	wg.Wait()

	for _, c := range changed {
		if c {
			return outInsights, outRecs, true
		}
	}
	return outInsights, outRecs, false
}

func (e *LLMEnhancer) enhanceInsight(ctx context.Context, in domain.Insight, ec EnhancementContext) (domain.Insight, bool) {
	prompt := insightPrompt(in, ec)

	text, ok := e.complete(ctx, prompt, "insight "+strconv.Quote(in.Title))
	if !ok {
		return in, false
	}

	fields := parseMarkers(text)
	message := e.clip(fields["MESSAGE"])
	if message == "" {
		log.Printf("[%s] enhancer: insight %q fallback (%s): reply has no MESSAGE marker",
			RequestID(ctx), in.Title, OutcomeMalformed)
		return in, false
	}
	e.remember(prompt, text)

	out := in
	out.Message = message
	if title := e.clip(fields["TITLE"]); title != "" {
		out.Title = title
	}
	if in.SuggestedAction != "" {
		if action := e.clip(fields["ACTION"]); action != "" {
			out.SuggestedAction = action
		}
	}
	return out, true
}

func (e *LLMEnhancer) enhanceRecommendation(ctx context.Context, rec string, ec EnhancementContext) (string, bool) {
	prompt := recommendationPrompt(rec, ec)

	text, ok := e.complete(ctx, prompt, "recommendation")
	if !ok {
		return rec, false
	}

	rewritten := e.clip(parseMarkers(text)["RECOMMENDATION"])
	if rewritten == "" {
		log.Printf("[%s] enhancer: recommendation fallback (%s): reply has no RECOMMENDATION marker",
			RequestID(ctx), OutcomeMalformed)
		return rec, false
	}
	e.remember(prompt, text)
	return rewritten, true
}

// complete serves prompt from the cache or the generator.
func (e *LLMEnhancer) complete(ctx context.Context, prompt, label string) (string, bool) {
	if text, ok := e.cache.Get(cacheKey(prompt, e.maxTokens)); ok {
		return text, true
	}

	res := e.generator.Generate(ctx, prompt, e.maxTokens)
	if !res.OK() {
		log.Printf("[%s] enhancer: %s fallback (%s): %v", RequestID(ctx), label, res.Outcome, res.Err)
		return "", false
	}
	return res.Text, true
}

// remember caches a reply once it is known to parse.
func (e *LLMEnhancer) remember(prompt, text string) {
	if err := e.cache.Set(cacheKey(prompt, e.maxTokens), text); err != nil {
		log.Printf("Warning: failed to cache generator reply: %v", err)
	}
}

// cacheKey hashes the prompt together with the token budget.
func cacheKey(prompt string, maxTokens int) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(maxTokens) + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

func insightPrompt(in domain.Insight, ec EnhancementContext) string {
	var b strings.Builder
	b.WriteString("You are a friendly personal finance coach. Rewrite the insight below so it is clear, specific and encouraging. ")
	b.WriteString("Keep every number exactly as given and do not invent new figures.\n\n")

	fmt.Fprintf(&b, "CONTEXT:\n- Financial health score: %d/100\n- Total balance: %s\n- Average monthly expenses: %s\n- Savings rate: %s\n\n",
		ec.Score, formatMoney(ec.TotalBalance), formatMoney(ec.MonthlyExpenses), formatPercent(ec.SavingsRate))

	fmt.Fprintf(&b, "INSIGHT (%s, %s):\nTitle: %s\nMessage: %s\n",
		in.Kind, in.Category, truncateRunes(in.Title, maxPromptField), truncateRunes(in.Message, maxPromptField))
	if in.SuggestedAction != "" {
		fmt.Fprintf(&b, "Suggested action: %s\n", truncateRunes(in.SuggestedAction, maxPromptField))
	}

	b.WriteString("\nAnswer with exactly these lines and nothing else:\nTITLE: <short title>\nMESSAGE: <one or two sentences>\n")
	if in.SuggestedAction != "" {
		b.WriteString("ACTION: <one concrete next step>\n")
	}
	return b.String()
}

func recommendationPrompt(rec string, ec EnhancementContext) string {
	return fmt.Sprintf(`You are a friendly personal finance coach. Rewrite the recommendation below as one clear, motivating sentence. Keep any numbers exactly as given.

CONTEXT:
- Financial health score: %d/100
- Total balance: %s
- Average monthly expenses: %s
- Savings rate: %s

RECOMMENDATION: %s

Answer with exactly one line:
RECOMMENDATION: <rewritten recommendation>
`, ec.Score, formatMoney(ec.TotalBalance), formatMoney(ec.MonthlyExpenses), formatPercent(ec.SavingsRate),
		truncateRunes(rec, maxPromptField))
}

// parseMarkers collects labelled fields from free text. Unlabelled lines
// following a label are joined onto it.
func parseMarkers(text string) map[string]string {
	fields := map[string]string{}
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if m := markerPattern.FindStringSubmatch(line); m != nil {
			current = strings.ToUpper(m[1])
			if _, dup := fields[current]; dup {
				// Keep the first occurrence; models sometimes echo the prompt.
				current = ""
				continue
			}
			fields[current] = strings.TrimSpace(m[2])
			continue
		}
		if current == "" {
			continue
		}
		if line = strings.TrimSpace(line); line == "" {
			current = ""
			continue
		}
		fields[current] = strings.TrimSpace(fields[current] + " " + line)
	}
	return fields
}

// clip normalises whitespace, strips wrapping quotes and limits the result to
// maxChars runes, cutting at a word boundary when possible.
func (e *LLMEnhancer) clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "\"'`*")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= e.maxChars {
		return s
	}

	cut := truncateRunes(s, e.maxChars-1)
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:-") + "…"
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
