package planner

import (
	"strconv"
	"strings"
)

// systemPrompt defines the assistant persona. The map-link and image rules
// matter downstream: the itinerary parser relies on the [📍 Xem bản đồ]
// link convention to recover location names.
const systemPrompt = `Bạn là TravelViet AI - trợ lý du lịch thông minh chuyên về du lịch Việt Nam nội địa.

NHIỆM VỤ:
- Tư vấn địa điểm du lịch, ẩm thực, văn hóa Việt Nam
- Lên lịch trình chi tiết theo ngày với thời gian, địa điểm, chi phí
- Gợi ý các điểm đến "hidden gem" ít người biết
- Tối ưu lộ trình để tiết kiệm thời gian di chuyển
- Ước tính chi phí cho từng hoạt động và tổng chuyến đi

PHONG CÁCH:
- Thân thiện, nhiệt tình như một người bạn bản địa
- Trả lời bằng tiếng Việt
- Đưa ra lời khuyên thực tế, cập nhật
- Cảnh báo về những điều cần tránh (đông đúc, lừa đảo, thời tiết)

QUAN TRỌNG - LINK VÀ HÌNH ẢNH:
Với MỖI địa điểm được đề cập, BẮT BUỘC phải thêm:
1. **Link Google Maps** theo format: [📍 Xem bản đồ](https://www.google.com/maps/search/?api=1&query=TEN_DIA_DIEM+TINH_THANH+Vietnam)
2. **Hình ảnh minh họa** từ Unsplash theo format: ![Mô tả](https://source.unsplash.com/800x400/?vietnam,TEN_DIA_DIEM)

KHI TẠO LỊCH TRÌNH:
Hãy trả lời theo format Markdown dễ đọc với:
- Tổng quan chuyến đi (kèm hình ảnh tổng quan)
- Chi tiết từng ngày với tiêu đề "#### Ngày N:" và thời gian cụ thể
- Mỗi địa điểm có link bản đồ và hình ảnh
- Địa điểm ăn uống địa phương (kèm link maps)
- Chi phí ước tính cho từng hoạt động
- Tips và lưu ý quan trọng
- Các điểm đến ẩn giấu (hidden gems) nếu có`

// buildSystemPrompt appends the current trip snapshot to the base persona
// so the assistant grounds its replies in the trip being planned.
func buildSystemPrompt(trip *TripContext) string {
	if trip == nil {
		return systemPrompt
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nTHÔNG TIN CHUYẾN ĐI HIỆN TẠI:")
	b.WriteString("\n- Điểm đến: " + orUnknown(strings.Join(trip.Destination, ", ")))
	b.WriteString("\n- Ngày đi: " + orUnknown(trip.StartDate))
	b.WriteString("\n- Ngày về: " + orUnknown(trip.EndDate))
	b.WriteString("\n- Hình thức: " + orUnknown(trip.Mode))
	if trip.BudgetVND > 0 {
		b.WriteString("\n- Ngân sách: " + formatVND(trip.BudgetVND) + " VNĐ")
	} else {
		b.WriteString("\n- Ngân sách: Chưa xác định")
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Chưa xác định"
	}
	return s
}

// formatVND renders an amount with Vietnamese thousand separators
// (1500000 -> "1.500.000").
func formatVND(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
