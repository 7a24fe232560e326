package config

import (
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nuzul/api-go/models"
)

// SeedReferenceData inserts the deed catalog and the geography hierarchy on
// an empty database. Idempotent: it only runs when the catalog is empty.
func SeedReferenceData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.PredefinedGoodDeed{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	deeds := []models.PredefinedGoodDeed{
		{NameEn: "Fajr prayer", NameBn: "ফজরের নামাজ", Tier: models.DeedTierMedium, Category: models.CategoryPrayer, BasePoints: 50, Tags: pq.StringArray{"salah", "daily"}},
		{NameEn: "Dhuhr prayer", NameBn: "যোহরের নামাজ", Tier: models.DeedTierEasy, Category: models.CategoryPrayer, BasePoints: 50, Tags: pq.StringArray{"salah", "daily"}},
		{NameEn: "Asr prayer", NameBn: "আসরের নামাজ", Tier: models.DeedTierEasy, Category: models.CategoryPrayer, BasePoints: 50, Tags: pq.StringArray{"salah", "daily"}},
		{NameEn: "Maghrib prayer", NameBn: "মাগরিবের নামাজ", Tier: models.DeedTierEasy, Category: models.CategoryPrayer, BasePoints: 50, Tags: pq.StringArray{"salah", "daily"}},
		{NameEn: "Isha prayer", NameBn: "এশার নামাজ", Tier: models.DeedTierEasy, Category: models.CategoryPrayer, BasePoints: 50, Tags: pq.StringArray{"salah", "daily"}},
		{NameEn: "Tarawih prayer", NameBn: "তারাবীহ নামাজ", Tier: models.DeedTierHard, Category: models.CategoryPrayer, BasePoints: 100, Tags: pq.StringArray{"salah", "ramadan"}},
		{NameEn: "Read one page of Quran", NameBn: "কুরআনের এক পৃষ্ঠা পড়া", Tier: models.DeedTierEasy, Category: models.CategoryQuran, BasePoints: 20, Tags: pq.StringArray{"quran", "daily"}},
		{NameEn: "Complete a juz", NameBn: "এক পারা সম্পূর্ণ করা", Tier: models.DeedTierHard, Category: models.CategoryQuran, BasePoints: 150, Tags: pq.StringArray{"quran"}},
		{NameEn: "Give charity", NameBn: "দান করা", Tier: models.DeedTierMedium, Category: models.CategoryCharity, BasePoints: 60, Tags: pq.StringArray{"sadaqah"}},
		{NameEn: "Feed a fasting person", NameBn: "রোজাদারকে ইফতার করানো", Tier: models.DeedTierMedium, Category: models.CategoryCharity, BasePoints: 80, Tags: pq.StringArray{"sadaqah", "ramadan"}},
		{NameEn: "Morning adhkar", NameBn: "সকালের যিকির", Tier: models.DeedTierEasy, Category: models.CategoryDhikr, BasePoints: 15, Tags: pq.StringArray{"dhikr", "daily"}},
		{NameEn: "Evening adhkar", NameBn: "সন্ধ্যার যিকির", Tier: models.DeedTierEasy, Category: models.CategoryDhikr, BasePoints: 15, Tags: pq.StringArray{"dhikr", "daily"}},
	}
	if err := db.Create(&deeds).Error; err != nil {
		return err
	}

	bangladesh := models.Country{Name: "Bangladesh", NameBn: "বাংলাদেশ", Code: "BD"}
	if err := db.Create(&bangladesh).Error; err != nil {
		return err
	}

	divisions := map[string][]string{
		"Dhaka":      {"Dhaka", "Gazipur", "Narayanganj", "Tangail"},
		"Chattogram": {"Chattogram", "Cox's Bazar", "Cumilla", "Feni"},
		"Rajshahi":   {"Rajshahi", "Bogura", "Pabna"},
		"Khulna":     {"Khulna", "Jashore", "Kushtia"},
		"Sylhet":     {"Sylhet", "Moulvibazar", "Habiganj"},
		"Barishal":   {"Barishal", "Bhola", "Patuakhali"},
		"Rangpur":    {"Rangpur", "Dinajpur", "Gaibandha"},
		"Mymensingh": {"Mymensingh", "Jamalpur", "Netrokona"},
	}

	for divisionName, districtNames := range divisions {
		division := models.Division{Name: divisionName, CountryID: bangladesh.ID}
		if err := db.Create(&division).Error; err != nil {
			return err
		}
		for _, districtName := range districtNames {
			district := models.District{Name: districtName, DivisionID: division.ID}
			if err := db.Create(&district).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
