// Package catalog holds the fixed lookup lists served to clients for building
// job and company forms.
package catalog

// Item is a single lookup entry.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Kind names a lookup list as it appears in the URL.
type Kind string

const (
	KindIndustries   Kind = "industries"
	KindLocations    Kind = "locations"
	KindCompanySizes Kind = "company-sizes"
	KindJobLevels    Kind = "job-levels"
	KindJobTypes     Kind = "job-types"
)

// DefaultJobType is applied to postings created without a type.
const DefaultJobType = "fulltime"

var lists = map[Kind][]Item{
	KindIndustries: {
		{ID: "it", Name: "Công nghệ thông tin"},
		{ID: "marketing", Name: "Marketing"},
		{ID: "finance", Name: "Tài chính - Ngân hàng"},
		{ID: "education", Name: "Giáo dục - Đào tạo"},
		{ID: "retail", Name: "Bán lẻ"},
		{ID: "healthcare", Name: "Y tế - Dược phẩm"},
		{ID: "construction", Name: "Xây dựng"},
		{ID: "hospitality", Name: "Nhà hàng - Khách sạn"},
		{ID: "manufacturing", Name: "Sản xuất"},
		{ID: "logistics", Name: "Vận tải - Logistics"},
		{ID: "media", Name: "Truyền thông"},
		{ID: "engineering", Name: "Kỹ thuật"},
		{ID: "agriculture", Name: "Nông nghiệp"},
		{ID: "legal", Name: "Luật"},
		{ID: "tourism", Name: "Du lịch"},
	},
	KindLocations: {
		{ID: "hcm", Name: "TP. Hồ Chí Minh"},
		{ID: "hanoi", Name: "Hà Nội"},
		{ID: "danang", Name: "Đà Nẵng"},
		{ID: "cantho", Name: "Cần Thơ"},
		{ID: "binhduong", Name: "Bình Dương"},
		{ID: "dongnai", Name: "Đồng Nai"},
		{ID: "hue", Name: "Huế"},
		{ID: "haiphong", Name: "Hải Phòng"},
		{ID: "quangninh", Name: "Quảng Ninh"},
		{ID: "khanhhoa", Name: "Khánh Hòa"},
		{ID: "nhatrang", Name: "Nha Trang"},
		{ID: "vungtau", Name: "Vũng Tàu"},
		{ID: "dalat", Name: "Đà Lạt"},
		{ID: "other", Name: "Tỉnh thành khác"},
	},
	KindCompanySizes: {
		{ID: "under50", Name: "Dưới 50 nhân viên"},
		{ID: "50-100", Name: "50-100 nhân viên"},
		{ID: "100-500", Name: "100-500 nhân viên"},
		{ID: "500-1000", Name: "500-1000 nhân viên"},
		{ID: "over1000", Name: "Trên 1000 nhân viên"},
	},
	KindJobLevels: {
		{ID: "intern", Name: "Thực tập sinh"},
		{ID: "fresher", Name: "Fresher"},
		{ID: "junior", Name: "Junior"},
		{ID: "middle", Name: "Middle"},
		{ID: "senior", Name: "Senior"},
		{ID: "leader", Name: "Team Leader"},
		{ID: "manager", Name: "Manager"},
		{ID: "director", Name: "Director"},
		{ID: "executive", Name: "C-Level Executive"},
	},
	KindJobTypes: {
		{ID: "fulltime", Name: "Toàn thời gian"},
		{ID: "parttime", Name: "Bán thời gian"},
		{ID: "contract", Name: "Hợp đồng"},
		{ID: "remote", Name: "Từ xa"},
		{ID: "freelance", Name: "Freelance"},
		{ID: "internship", Name: "Thực tập"},
	},
}

// Kinds returns the names of all lookup lists.
func Kinds() []Kind {
	return []Kind{KindIndustries, KindLocations, KindCompanySizes, KindJobLevels, KindJobTypes}
}

// List returns a copy of the lookup list for kind, or false if the kind is unknown.
func List(kind Kind) ([]Item, bool) {
	items, ok := lists[kind]
	if !ok {
		return nil, false
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, true
}

// Contains reports whether id is a member of the list for kind.
func Contains(kind Kind, id string) bool {
	for _, item := range lists[kind] {
		if item.ID == id {
			return true
		}
	}
	return false
}
