package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/pkg/logger"
)

const (
	pharmaciesSection = 1
	reminderMenuCode  = "20"
)

type directorySection struct {
	title string
	body  string
}

// Sections 2-19 carry fixed text; section 1 is rendered from the categories table.
var directorySections = []directorySection{
	{title: "💊 الصيدليات"},
	{title: "🏥 المستشفيات والمراكز الصحية", body: "🏥 مركز الرعاية الصحية الأولية بالقرين\n🕗 من 7:30 صباحًا حتى 9 مساءً\n🚑 للطوارئ اتصل 997"},
	{title: "🏛️ الدوائر الحكومية", body: "🏛️ بلدية القرين\n🕗 الأحد - الخميس 7:30 ص - 2:30 م"},
	{title: "🍽️ المطاعم"},
	{title: "☕ المقاهي"},
	{title: "🛒 البقالات والتموينات"},
	{title: "⛽ محطات الوقود"},
	{title: "🔧 ورش السيارات"},
	{title: "🕌 المساجد وأوقات الصلاة"},
	{title: "🏫 المدارس"},
	{title: "🏦 البنوك والصرافات"},
	{title: "🧺 المغاسل"},
	{title: "💈 الحلاقون"},
	{title: "🧵 الخياطون"},
	{title: "📱 محلات الجوالات"},
	{title: "🚚 النقل والتوصيل"},
	{title: "🔌 السباكة والكهرباء"},
	{title: "🏡 الاستراحات والقاعات"},
	{title: "📨 اقتراحات وتواصل مع الإدارة", body: "📨 أرسل اقتراحك أو طلب إضافة نشاطك التجاري في رسالة واحدة وسيتواصل معك فريق الدليل."},
}

const emptySectionText = "📌 لا توجد بيانات مسجلة حاليًا في هذا القسم.\nلإضافة نشاطك أرسل 19."

const (
	helpText           = "👋 أهلاً! أرسل:\n0 للقائمة الرئيسية\n20 للمنبّه"
	noOpenPharmacyText = "🚫 لا توجد صيدليات مفتوحة الآن."
	noPharmacyText     = "🚫 لا توجد صيدليات مسجلة حاليًا."
	openPharmacyHint   = "\n\n🟢 لعرض المفتوح الآن أرسل: صيدليات مفتوحة"
	dataUnavailable    = "⚠️ تعذر جلب البيانات حاليًا، حاول لاحقًا."
)

var openPharmacyQueries = map[string]bool{
	"صيدليات مفتوحة": true,
	"صيدلية مفتوحة":  true,
	"1 مفتوح":        true,
	"مفتوح":          true,
}

type directoryService struct {
	categoryRepo repository.CategoryRepository
	clock        clockwork.Clock
	loc          *time.Location
	log          logger.Logger
}

// NewDirectoryService creates a new instance of DirectoryService implementation.
func NewDirectoryService(categoryRepo repository.CategoryRepository, clock clockwork.Clock, loc *time.Location, log logger.Logger) DirectoryService {
	return &directoryService{
		categoryRepo: categoryRepo,
		clock:        clock,
		loc:          loc,
		log:          log,
	}
}

func (s *directoryService) MainMenu() string {
	var b strings.Builder
	b.WriteString("*📋 دليل خدمات القرين*\n\n")
	for i, sec := range directorySections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, sec.title)
	}
	fmt.Fprintf(&b, "%s. ⏰ المنبه والتذكيرات\n\n", reminderMenuCode)
	b.WriteString("أرسل رقم الخدمة المطلوبة.")
	return b.String()
}

func (s *directoryService) Reply(ctx context.Context, text string) string {
	if openPharmacyQueries[text] {
		return s.openPharmacies(ctx)
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(directorySections) {
		return helpText
	}
	if n == pharmaciesSection {
		return s.allPharmacies(ctx)
	}
	sec := directorySections[n-1]
	body := sec.body
	if body == "" {
		body = emptySectionText
	}
	return fmt.Sprintf("*%s*\n\n%s\n\n0 للقائمة الرئيسية", sec.title, body)
}

func (s *directoryService) allPharmacies(ctx context.Context) string {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list pharmacies", err)
		return dataUnavailable
	}
	if len(categories) == 0 {
		return noPharmacyText
	}
	return renderCategories(categories) + openPharmacyHint
}

func (s *directoryService) openPharmacies(ctx context.Context) string {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list pharmacies", err)
		return dataUnavailable
	}
	local := s.clock.Now().In(s.loc)
	var open []*entity.ServiceCategory
	for _, c := range categories {
		if c.OpenAt(local) {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return noOpenPharmacyText
	}
	return renderCategories(open)
}

func renderCategories(categories []*entity.ServiceCategory) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = fmt.Sprintf("🏪 %s\n%s", c.Name, c.Description)
	}
	return strings.Join(parts, "\n\n")
}
