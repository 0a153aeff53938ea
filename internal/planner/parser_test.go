package planner

import (
	"testing"
)

func TestParseItineraryNoDayHeaders(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "empty string",
			text: "",
		},
		{
			name: "prose without day markers",
			text: "Đà Lạt là một thành phố tuyệt vời để du lịch.\n\n- Thuê xe máy: khám phá quanh hồ",
		},
		{
			name: "heading without day keyword",
			text: "## Gợi ý lịch trình\n\n- **8:00**: Khởi hành",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := ParseItinerary(tt.text)
			if len(days) != 0 {
				t.Errorf("expected no days, got %d", len(days))
			}
		})
	}
}

func TestParseItineraryTwoDays(t *testing.T) {
	text := "### Ngày 1: 2024-06-01\n" +
		"- **8:00**: Tham quan [Hồ Xuân Hương](https://maps.google.com/?q=ho+xuan+huong) 📍 Xem bản đồ, vé 500.000 VNĐ\n" +
		"- **Trưa**: Ăn bún bò tại quán gần chợ, khoảng 60.000đ\n" +
		"\n" +
		"### Ngày 2\n" +
		"- Chiều: Nghỉ tại khách sạn [Ana Mandara](https://maps.google.com/?q=ana+mandara)\n"

	days := ParseItinerary(text)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	d1 := days[0]
	if d1.DayIndex != 1 {
		t.Errorf("day 1 index = %d, want 1", d1.DayIndex)
	}
	if d1.Date == nil || *d1.Date != "2024-06-01" {
		t.Errorf("day 1 date = %v, want 2024-06-01", d1.Date)
	}
	if len(d1.Items) != 2 {
		t.Fatalf("day 1: expected 2 items, got %d", len(d1.Items))
	}

	first := d1.Items[0]
	if first.StartTime == nil || *first.StartTime != "08:00" {
		t.Errorf("first item start time = %v, want 08:00", first.StartTime)
	}
	if first.LocationName == nil || *first.LocationName != "Hồ Xuân Hương" {
		t.Errorf("first item location = %v, want Hồ Xuân Hương", first.LocationName)
	}
	if first.Title != "Hồ Xuân Hương" {
		t.Errorf("first item title = %q, want Hồ Xuân Hương", first.Title)
	}
	if first.EstimatedCostVND == nil || *first.EstimatedCostVND != 500000 {
		t.Errorf("first item cost = %v, want 500000", first.EstimatedCostVND)
	}
	// "xe" must not fire inside "xem"; no standalone transport keyword here.
	if first.ItemType != ItemTypeVisit {
		t.Errorf("first item type = %q, want %q", first.ItemType, ItemTypeVisit)
	}

	second := d1.Items[1]
	if second.StartTime != nil {
		t.Errorf("second item start time = %v, want nil", *second.StartTime)
	}
	if second.ItemType != ItemTypeFood {
		t.Errorf("second item type = %q, want %q", second.ItemType, ItemTypeFood)
	}
	if second.EstimatedCostVND == nil || *second.EstimatedCostVND != 60000 {
		t.Errorf("second item cost = %v, want 60000", second.EstimatedCostVND)
	}

	d2 := days[1]
	if d2.DayIndex != 2 {
		t.Errorf("day 2 index = %d, want 2", d2.DayIndex)
	}
	if d2.Date != nil {
		t.Errorf("day 2 date = %q, want nil", *d2.Date)
	}
	if len(d2.Items) != 1 {
		t.Fatalf("day 2: expected 1 item, got %d", len(d2.Items))
	}
	if d2.Items[0].ItemType != ItemTypeStay {
		t.Errorf("day 2 item type = %q, want %q", d2.Items[0].ItemType, ItemTypeStay)
	}
	if d2.Items[0].StartTime != nil {
		t.Errorf("day 2 item start time = %v, want nil", *d2.Items[0].StartTime)
	}
}

func TestParseItineraryCostFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{name: "dot grouped VNĐ", body: "vé vào cổng 150.000 VNĐ", want: 150000},
		{name: "comma grouped đ", body: "vé vào cổng 150,000đ", want: 150000},
		{name: "plain digits vnđ", body: "vé vào cổng 150000 vnđ", want: 150000},
		{name: "đồng suffix", body: "khoảng 2.500.000 đồng một đêm", want: 2500000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := ParseItinerary("## Ngày 1\n- Sáng: Tham quan thác, " + tt.body + "\n")
			if len(days) != 1 || len(days[0].Items) != 1 {
				t.Fatalf("expected 1 day with 1 item, got %+v", days)
			}
			got := days[0].Items[0].EstimatedCostVND
			if got == nil || *got != tt.want {
				t.Errorf("cost = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestParseItineraryCostAbsent(t *testing.T) {
	days := ParseItinerary("## Ngày 1\n- Sáng: Đi dạo quanh hồ, miễn phí\n")
	if len(days) != 1 || len(days[0].Items) != 1 {
		t.Fatalf("expected 1 day with 1 item, got %+v", days)
	}
	if days[0].Items[0].EstimatedCostVND != nil {
		t.Errorf("cost = %d, want nil", *days[0].Items[0].EstimatedCostVND)
	}
}

func TestParseItineraryTitleFallback(t *testing.T) {
	// No link: title is the cleaned body up to the first period.
	days := ParseItinerary("## Ngày 1\n- **9:00**: Leo núi Lang Biang. Mang theo nước uống và áo khoác.\n")
	if len(days) != 1 || len(days[0].Items) != 1 {
		t.Fatalf("expected 1 day with 1 item, got %+v", days)
	}
	item := days[0].Items[0]
	if item.Title != "Leo núi Lang Biang" {
		t.Errorf("title = %q, want Leo núi Lang Biang", item.Title)
	}
	if item.Description == nil {
		t.Fatal("expected description to be set")
	}
	if *item.Description != "Leo núi Lang Biang. Mang theo nước uống và áo khoác." {
		t.Errorf("description = %q", *item.Description)
	}
}

func TestParseItineraryDropsTinyTitles(t *testing.T) {
	days := ParseItinerary("## Ngày 1\n- Sáng: đi\n- Chiều: Tham quan vườn hoa thành phố\n")
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if len(days[0].Items) != 1 {
		t.Fatalf("expected tiny item dropped, got %d items", len(days[0].Items))
	}
	if days[0].Items[0].Title != "Tham quan vườn hoa thành phố" {
		t.Errorf("surviving item title = %q", days[0].Items[0].Title)
	}
}

func TestParseItineraryFallbackHeader(t *testing.T) {
	// No heading markers at all: the looser pattern kicks in.
	days := ParseItinerary("Ngày 1: 2024-06-01\n- Sáng: Tham quan chợ Đà Lạt\n")
	if len(days) != 1 {
		t.Fatalf("expected 1 day via fallback pattern, got %d", len(days))
	}
	if days[0].Date == nil || *days[0].Date != "2024-06-01" {
		t.Errorf("date = %v, want 2024-06-01", days[0].Date)
	}
}

func TestParseItineraryFallbackNotMerged(t *testing.T) {
	// A marked header plus inline "Ngày 2" prose: only the primary pattern
	// runs, so the prose mention never becomes a second day.
	text := "## Ngày 1\n- Sáng: Tham quan thung lũng Tình Yêu, nhắc đến Ngày 2 trong mô tả\n"
	days := ParseItinerary(text)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].DayIndex != 1 {
		t.Errorf("day index = %d, want 1", days[0].DayIndex)
	}
}

func TestParseItineraryKeepsDuplicateIndices(t *testing.T) {
	text := "## Ngày 2\n- Sáng: Tham quan nhà thờ Con Gà\n## Ngày 2\n- Chiều: Dạo quanh hồ Tuyền Lâm\n"
	days := ParseItinerary(text)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].DayIndex != 2 || days[1].DayIndex != 2 {
		t.Errorf("day indices = %d, %d; duplicates must be preserved", days[0].DayIndex, days[1].DayIndex)
	}
}

func TestParseItinerarySkipsDayZero(t *testing.T) {
	days := ParseItinerary("## Ngày 0\n- Sáng: Chuẩn bị hành lý cho chuyến đi\n## Ngày 1\n- Sáng: Khởi hành đi Đà Lạt\n")
	if len(days) != 1 {
		t.Fatalf("expected day 0 skipped, got %d days", len(days))
	}
	if days[0].DayIndex != 1 {
		t.Errorf("day index = %d, want 1", days[0].DayIndex)
	}
}

func TestParseItineraryStripsImagesAndMapCaption(t *testing.T) {
	text := "## Ngày 1\n" +
		"- **14:00**: Ghé [Quán cà phê Mê Linh](https://maps.google.com/?q=me+linh) ![ảnh](https://example.com/a.jpg) ngắm đồi chè\n"
	days := ParseItinerary(text)
	if len(days) != 1 || len(days[0].Items) != 1 {
		t.Fatalf("expected 1 day with 1 item, got %+v", days)
	}
	item := days[0].Items[0]
	if item.LocationName == nil || *item.LocationName != "Quán cà phê Mê Linh" {
		t.Errorf("location = %v", item.LocationName)
	}
	if item.Description == nil {
		t.Fatal("expected description")
	}
	if want := "Ghé Quán cà phê Mê Linh ngắm đồi chè"; *item.Description != want {
		t.Errorf("description = %q, want %q", *item.Description, want)
	}
	if item.ItemType != ItemTypeFood {
		t.Errorf("item type = %q, want %q", item.ItemType, ItemTypeFood)
	}
}

func TestClassifyItemKeywordBoundaries(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "xe as word", body: "thuê xe máy đi vòng quanh", want: ItemTypeTransport},
		{name: "xe inside xem", body: "xem biểu diễn nhạc nước", want: ItemTypeVisit},
		{name: "food before stay", body: "ăn sáng tại khách sạn", want: ItemTypeFood},
		{name: "multi word keyword", body: "di chuyển ra sân bay", want: ItemTypeTransport},
		{name: "uppercase keyword", body: "Quán ốc đêm nổi tiếng", want: ItemTypeFood},
		{name: "no keyword", body: "ngắm hoàng hôn trên đồi", want: ItemTypeVisit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyItem(tt.body); got != tt.want {
				t.Errorf("classifyItem(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestBuildItemClockVariants(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{name: "colon time", label: "8:00", want: "08:00"},
		{name: "h separator with minutes", label: "19h30", want: "19:30"},
		{name: "h separator bare", label: "19h", want: "19:00"},
		{name: "two digit hour", label: "14:15", want: "14:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := buildItem(tt.label, "Tham quan vườn dâu tây")
			if !ok {
				t.Fatal("expected item to be built")
			}
			if item.StartTime == nil || *item.StartTime != tt.want {
				t.Errorf("start time = %v, want %q", item.StartTime, tt.want)
			}
		})
	}
}

func TestBuildItemTextualLabelHasNoTime(t *testing.T) {
	item, ok := buildItem("Buổi sáng", "Tham quan vườn dâu tây")
	if !ok {
		t.Fatal("expected item to be built")
	}
	if item.StartTime != nil {
		t.Errorf("start time = %q, want nil", *item.StartTime)
	}
}
