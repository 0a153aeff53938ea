package planner

import (
	"regexp"
	"strconv"
	"strings"
)

// Itinerary extraction is a best-effort heuristic over the assistant's
// Markdown conventions. It never fails: malformed candidates are dropped
// and text with no recognizable day headers yields an empty slice.
//
// The pipeline has two stages so each is testable on its own: segment the
// text into day spans, then segment each span into bullet items.
var (
	// "#### Ngày 1: 2024-01-01" with two to four heading markers.
	dayHeaderPattern = regexp.MustCompile(`(?i)#{2,4}\s*Ngày\s*(\d+)\s*:?\s*(\d{4}-\d{2}-\d{2})?`)

	// Looser fallback without heading markers. Tried only when the primary
	// pattern matches nothing; the two result sets are never merged.
	dayHeaderAltPattern = regexp.MustCompile(`(?i)Ngày\s*(\d+)\s*:?\s*(\d{4}-\d{2}-\d{2})?`)

	// "- **8:00**: ..." or "- Sáng: ...". The bold alternative admits
	// colons inside the label so clock times survive.
	itemStartPattern = regexp.MustCompile(`(?m)^\s*[-*]\s*(?:\*\*([^\n]+?)\*\*|([^*\n:]+?))\s*:\s*`)

	// Clock time inside a label: "8:00", "19h", "19h30".
	clockPattern = regexp.MustCompile(`(\d{1,2})[h:](\d{2})?`)

	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	imagePattern      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mapCaptionPattern = regexp.MustCompile(`(?i)📍\s*Xem bản đồ`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Amount followed by a currency marker. Grouped thousands first, then
	// a plain digit run so "150000 vnđ" still extracts in full.
	costPattern = regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d{3})+|\d+)\s*(?:VNĐ|đồng|đ)`)
)

// Keyword classification runs against the lowercased raw body. Matches
// respect letter boundaries so "xe" does not fire inside "xem". Rules are
// checked in order; the first hit wins.
var itemTypeRules = []struct {
	itemType string
	pattern  *regexp.Regexp
}{
	{ItemTypeFood, keywordPattern("ăn", "uống", "quán", "nhà hàng")},
	{ItemTypeStay, keywordPattern("nghỉ", "khách sạn", "lưu trú")},
	{ItemTypeTransport, keywordPattern("di chuyển", "taxi", "xe")},
}

func keywordPattern(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?:^|[^\p{L}])(?:` + strings.Join(quoted, "|") + `)(?:[^\p{L}]|$)`)
}

// ParseItinerary extracts structured days from one block of assistant text.
// An empty result means no day-by-day structure was found; it is not an
// error. Day indices come straight from the source text and are neither
// deduplicated nor renumbered.
func ParseItinerary(text string) []ParsedDay {
	matches := dayHeaderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		matches = dayHeaderAltPattern.FindAllStringSubmatchIndex(text, -1)
	}
	if len(matches) == 0 {
		return nil
	}

	days := make([]ParsedDay, 0, len(matches))
	for i, m := range matches {
		dayIndex, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || dayIndex <= 0 {
			continue
		}

		var date *string
		if m[4] >= 0 {
			d := text[m[4]:m[5]]
			date = &d
		}

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		days = append(days, ParsedDay{
			DayIndex: dayIndex,
			Date:     date,
			Items:    parseItems(text[m[1]:end]),
		})
	}
	return days
}

// parseItems extracts bullet items from one day's span. An item's body runs
// from the end of its label to the start of the next bullet, so wrapped
// lines stay attached to their item.
func parseItems(span string) []ParsedItem {
	matches := itemStartPattern.FindAllStringSubmatchIndex(span, -1)
	items := make([]ParsedItem, 0, len(matches))

	for i, m := range matches {
		label := submatch(span, m, 1)
		if label == "" {
			label = submatch(span, m, 2)
		}

		end := len(span)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		if item, ok := buildItem(strings.TrimSpace(label), span[m[1]:end]); ok {
			items = append(items, item)
		}
	}
	return items
}

// buildItem derives one structured item from a label and raw body. ok is
// false when the derived title is too short to be a meaningful record.
func buildItem(label, body string) (ParsedItem, bool) {
	item := ParsedItem{ItemType: classifyItem(body)}

	if tm := clockPattern.FindStringSubmatch(label); tm != nil {
		hour := tm[1]
		if len(hour) == 1 {
			hour = "0" + hour
		}
		minute := tm[2]
		if minute == "" {
			minute = "00"
		}
		start := hour + ":" + minute
		item.StartTime = &start
	}

	if lm := linkPattern.FindStringSubmatch(body); lm != nil {
		name := strings.TrimSpace(mapCaptionPattern.ReplaceAllString(lm[1], ""))
		if name != "" {
			item.LocationName = &name
		}
	}

	if cm := costPattern.FindStringSubmatch(body); cm != nil {
		digits := strings.NewReplacer(".", "", ",", "").Replace(cm[1])
		if v, err := strconv.ParseInt(digits, 10, 64); err == nil {
			item.EstimatedCostVND = &v
		}
	}

	clean := cleanDescription(body)

	title := ""
	if item.LocationName != nil {
		title = *item.LocationName
	} else {
		title = clean
		if idx := strings.Index(title, "."); idx >= 0 {
			title = title[:idx]
		}
		title = strings.TrimSpace(truncateRunes(title, 100))
	}
	if len([]rune(title)) <= 2 {
		return ParsedItem{}, false
	}
	item.Title = title

	if clean != "" && clean != title {
		item.Description = &clean
	}
	return item, true
}

func classifyItem(body string) string {
	lower := strings.ToLower(body)
	for _, rule := range itemTypeRules {
		if rule.pattern.MatchString(lower) {
			return rule.itemType
		}
	}
	return ItemTypeVisit
}

// cleanDescription strips image syntax, collapses links to their text, and
// normalizes whitespace. Truncation counts runes, not bytes.
func cleanDescription(body string) string {
	s := imagePattern.ReplaceAllString(body, "")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return truncateRunes(strings.TrimSpace(s), 500)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// submatch returns the captured group text or "" when the group did not
// participate in the match.
func submatch(s string, m []int, group int) string {
	lo, hi := m[2*group], m[2*group+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}
