package database

import "qurainbot/internal/domain/entity"

// Codes of the seeded pharmacy categories.
const (
	CategoryPharmacyAtlas  = "pharmacy_atlas"
	CategoryPharmacyQassim = "pharmacy_qassim"
)

// DefaultCategories returns the directory rows inserted on first start.
func DefaultCategories() []*entity.ServiceCategory {
	return []*entity.ServiceCategory{
		{
			Code:             CategoryPharmacyAtlas,
			Name:             "صيدلية ركن أطلس (القرين)",
			Description:      "📞 0556945390\n📱 واتس اب\n📍 الموقع: https://maps.app.goo.gl/KGDcPGwvuym1E8YFA\n🚚 خدمة التوصيل: نعم",
			MorningStartTime: "08:00",
			MorningEndTime:   "12:00",
			EveningStartTime: "16:00",
			EveningEndTime:   "23:00",
		},
		{
			Code:             CategoryPharmacyQassim,
			Name:             "صيدلية دواء القصيم",
			Description:      "📞 0500000000\n📍 الموقع: https://maps.app.goo.gl/test",
			MorningStartTime: "08:30",
			MorningEndTime:   "12:30",
			EveningStartTime: "16:30",
			EveningEndTime:   "23:30",
		},
	}
}
