package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/m3rciful/catalogbot/core/logger"

	"log/slog"
)

const (
	seedMetaDoc = "catalogSeed_productsTree"
	seedVersion = 2
)

type seedCategory struct {
	ID    string
	Title string
}

type seedSection struct {
	ID         string
	Title      string
	Categories []seedCategory
}

// seedCatalog is the fixed section/category tree. Items, sizes and images are
// managed through the bot at runtime; the tree itself is static.
var seedCatalog = []seedSection{
	{
		ID:    "listovye-materialy",
		Title: "Листовые материалы",
		Categories: []seedCategory{
			{ID: "pvh-yilong", Title: "ПВХ YiLong"},
			{ID: "orgsteklo-yilong", Title: "Оргстекло YiLong"},
			{ID: "pvc-yilong", Title: "PVC YiLong"},
			{ID: "akril-jun-shang", Title: "Акрил JUN SHANG"},
			{ID: "roumark-gravirovka", Title: "Роумарк (пластик для гравировки)"},
			{ID: "alyukobond", Title: "Алюкобонд"},
			{ID: "penokarton", Title: "Пенокартон"},
		},
	},
	{
		ID:    "rulonnye-materialy",
		Title: "Рулонные материалы",
		Categories: []seedCategory{
			{ID: "banner-tkan", Title: "Баннерная ткань"},
			{ID: "materialy-dlya-pechati", Title: "Материалы для печати"},
			{ID: "tentovaya-tkan", Title: "Тентовая ткань"},
			{ID: "plenki-laminirovanie", Title: "Пленки для ламинирования"},
			{ID: "cvetnaya-samokley-vinil", Title: "Цветная самоклеющаяся виниловая пленка"},
			{ID: "montazhnye-plenki", Title: "Монтажные пленки"},
			{ID: "vitrajnye-plenki", Title: "Витражные пленки"},
			{ID: "magnitnyj-vinil", Title: "Магнитный винил"},
			{ID: "oboi-dlya-pechati", Title: "Обои для печати"},
		},
	},
	{
		ID:    "istochniki-sveta",
		Title: "Источники света (светодиоды, лампы и пр.)",
		Categories: []seedCategory{
			{ID: "led-prozhektory", Title: "LED прожекторы (соффиты)"},
			{ID: "moduli-svetodiodnye", Title: "Модули светодиодные"},
			{ID: "svetod-lenty", Title: "Светодиодные ленты"},
			{ID: "svetod-linejki-zhestkaya-osnova", Title: "Светодиодные линейки на жесткой основе"},
			{ID: "duralajt", Title: "Дюралайт светодиодный"},
			{ID: "svetilnik", Title: "Светильник"},
			{ID: "gibkij-neon", Title: "Гибкий неон светодиодный"},
		},
	},
	{
		ID:    "transformatory-i-upravlenie",
		Title: "Трансформаторы и источники управления",
		Categories: []seedCategory{
			{ID: "transformatory-vnutr-naruzh", Title: "Трансформаторы (внутренние и наружные)"},
			{ID: "kontrollery-dimmery-usiliteli", Title: "Контроллеры, диммеры, усилители"},
		},
	},
	{
		ID:    "chernila-kraski",
		Title: "Чернила (краски)",
		Categories: []seedCategory{
			{ID: "solvent-kraski", Title: "Сольвентные краски"},
			{ID: "ecosolvent-kraski", Title: "Экосольвентные краски"},
		},
	},
	{
		ID:    "reklamno-vystavochnoe",
		Title: "Рекламное и выставочное оборудование",
		Categories: []seedCategory{
			{ID: "pop-up-stendy", Title: "Поп-ап стенды (pop up, пресс-стены)"},
			{ID: "x-konstrukcii", Title: "X-конструкции, x-баннера, паучки"},
			{ID: "roll-up", Title: "Ролл-стенды roll up"},
			{ID: "promostoly", Title: "Промостолы, промостойки"},
			{ID: "flagchiki-flagi", Title: "Флажочки (флаги)"},
			{ID: "posm-raznoe", Title: "POSM материалы (разное)"},
			{ID: "bukletnicy", Title: "Буклетницы"},
		},
	},
	{
		ID:    "alyuminievye-profily",
		Title: "Алюминиевые профиля и комплектующие",
		Categories: []seedCategory{
			{ID: "profily-alyuminievye", Title: "Профиля алюминиевые"},
			{ID: "komplektuyushchie-dlya-profilya", Title: "Комплектующие для профиля"},
			{ID: "profil-dlya-lent", Title: "Алюминиевый профиль для светодиодных лент"},
		},
	},
	{
		ID:    "kleevye-resheniya",
		Title: "Клеевые решения (скотч, клей)",
		Categories: []seedCategory{
			{ID: "skotch", Title: "Клеевые решения (скотч)"},
			{ID: "klej", Title: "Клей"},
		},
	},
	{
		ID:    "metal-i-plast-furnitura",
		Title: "Металлическая и пластиковая фурнитура",
		Categories: []seedCategory{
			{ID: "kajma-plastikovaya", Title: "Кайма пластиковая"},
			{ID: "metal-furnitura", Title: "Металлическая фурнитура"},
			{ID: "neodimovye-magnity", Title: "Неодимовые магниты"},
		},
	},
	{
		ID:    "instrumenty",
		Title: "Инструменты",
		Categories: []seedCategory{
			{ID: "ruchnye-instrumenty", Title: "Ручные инструменты"},
			{ID: "postpechatnye-instr", Title: "Постпечатные инструменты"},
		},
	},
	{
		ID:    "frezy-i-gravery",
		Title: "Фрезы и граверы",
		Categories: []seedCategory{
			{ID: "frezy", Title: "Фрезы"},
			{ID: "gravery", Title: "Граверы"},
		},
	},
}

// Seed writes the static section/category tree unless the meta document
// already records the current seed version. Writes use MergeAll so manually
// added fields (category images in particular) survive a re-seed.
func (s *Catalog) Seed(ctx context.Context) error {
	metaRef := s.client.Collection("meta").Doc(seedMetaDoc)

	meta, err := metaRef.Get(ctx)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("store: read seed meta: %w", err)
	}
	if err == nil {
		if v, verr := meta.DataAt("version"); verr == nil {
			if ver, ok := v.(int64); ok && ver == seedVersion {
				logger.SEED.Debug("seed up to date",
					slog.String("event", "skip"),
					slog.Int("version", seedVersion),
				)
				return nil
			}
		}
	}

	start := time.Now()
	sections, categories := 0, 0
	for i, sec := range seedCatalog {
		_, err := s.sections().Doc(sec.ID).Set(ctx, map[string]any{
			"title": sec.Title,
			"order": i + 1,
		}, firestore.MergeAll)
		if err != nil {
			return fmt.Errorf("store: seed section %s: %w", sec.ID, err)
		}
		sections++
		for j, cat := range sec.Categories {
			_, err := s.categories(sec.ID).Doc(cat.ID).Set(ctx, map[string]any{
				"title": cat.Title,
				"order": j + 1,
			}, firestore.MergeAll)
			if err != nil {
				return fmt.Errorf("store: seed category %s/%s: %w", sec.ID, cat.ID, err)
			}
			categories++
		}
	}

	_, err = metaRef.Set(ctx, map[string]any{
		"version":   seedVersion,
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("store: write seed meta: %w", err)
	}

	logger.SEED.Info("catalog seeded",
		slog.String("event", "seeded"),
		slog.Int("version", seedVersion),
		slog.Int("sections", sections),
		slog.Int("categories", categories),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
