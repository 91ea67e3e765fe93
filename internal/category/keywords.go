package category

// DefaultKeywords is the built-in keyword → category table. Keys include
// both product words and common Russian store and venue names. Keywords
// that appear under several plausible categories (кофе, вода, метро)
// carry their most frequent reading.
func DefaultKeywords() map[string]string {
	return map[string]string{
		// Продукты
		"хлеб":       "продукты",
		"молоко":     "продукты",
		"сыр":        "продукты",
		"яйца":       "продукты",
		"масло":      "продукты",
		"йогурт":     "продукты",
		"творог":     "продукты",
		"кефир":      "продукты",
		"сметана":    "продукты",
		"колбаса":    "продукты",
		"сосиски":    "продукты",
		"мясо":       "продукты",
		"курица":     "продукты",
		"рыба":       "продукты",
		"овощи":      "продукты",
		"фрукты":     "продукты",
		"яблоки":     "продукты",
		"бананы":     "продукты",
		"апельсины":  "продукты",
		"картошка":   "продукты",
		"картофель":  "продукты",
		"морковь":    "продукты",
		"лук":        "продукты",
		"чеснок":     "продукты",
		"помидоры":   "продукты",
		"огурцы":     "продукты",
		"капуста":    "продукты",
		"макароны":   "продукты",
		"крупа":      "продукты",
		"рис":        "продукты",
		"гречка":     "продукты",
		"сахар":      "продукты",
		"соль":       "продукты",
		"мука":       "продукты",
		"печенье":    "продукты",
		"конфеты":    "продукты",
		"шоколад":    "продукты",
		"сок":        "продукты",
		"газировка":  "продукты",
		"пиво":       "продукты",
		"вино":       "продукты",
		"водка":      "продукты",

		// Магазины продуктов
		"магнит":       "продукты",
		"пятерочка":    "продукты",
		"перекресток":  "продукты",
		"перекрёсток":  "продукты",
		"ашан":         "продукты",
		"лента":        "продукты",
		"дикси":        "продукты",
		"окей":         "продукты",
		"азбука вкуса": "продукты",
		"вкусвилл":     "продукты",
		"spar":         "продукты",
		"auchan":       "продукты",
		"магнолия":     "продукты",
		"мираторг":     "продукты",
		"карусель":     "продукты",
		"глобус":       "продукты",
		"billa":        "продукты",
		"билла":        "продукты",
		"верный":       "продукты",
		"лавка":        "продукты",
		"продуктовый":  "продукты",
		"супермаркет":  "продукты",
		"гипермаркет":  "продукты",
		"продукты":     "продукты",

		// Канцтовары
		"ручка":       "канцтовары",
		"карандаш":    "канцтовары",
		"тетрадь":     "канцтовары",
		"блокнот":     "канцтовары",
		"бумага":      "канцтовары",
		"степлер":     "канцтовары",
		"скрепки":     "канцтовары",
		"папка":       "канцтовары",
		"файлы":       "канцтовары",
		"маркер":      "канцтовары",
		"ластик":      "канцтовары",
		"линейка":     "канцтовары",
		"калькулятор": "канцтовары",

		// Бытовая химия
		"мыло":                      "бытовая химия",
		"шампунь":                   "бытовая химия",
		"гель для душа":             "бытовая химия",
		"зубная паста":              "бытовая химия",
		"зубная щетка":              "бытовая химия",
		"стиральный порошок":        "бытовая химия",
		"кондиционер для белья":     "бытовая химия",
		"средство для мытья посуды": "бытовая химия",
		"чистящее средство":         "бытовая химия",
		"туалетная бумага":          "бытовая химия",
		"салфетки":                  "бытовая химия",
		"бумажные полотенца":        "бытовая химия",

		// Одежда
		"футболка":     "одежда",
		"рубашка":      "одежда",
		"брюки":        "одежда",
		"джинсы":       "одежда",
		"куртка":       "одежда",
		"пальто":       "одежда",
		"платье":       "одежда",
		"юбка":         "одежда",
		"носки":        "одежда",
		"нижнее белье": "одежда",
		"шапка":        "одежда",
		"шарф":         "одежда",
		"перчатки":     "одежда",

		// Обувь
		"туфли":     "обувь",
		"кроссовки": "обувь",
		"ботинки":   "обувь",
		"сапоги":    "обувь",
		"сандалии":  "обувь",
		"тапочки":   "обувь",

		// Транспорт
		"проезд":      "транспорт",
		"метро":       "транспорт",
		"автобус":     "транспорт",
		"маршрутка":   "транспорт",
		"трамвай":     "транспорт",
		"троллейбус":  "транспорт",
		"электричка":  "транспорт",
		"такси":       "такси",
		"бензин":      "транспорт",
		"парковка":    "транспорт",

		// Кафе и рестораны
		"кофе":         "кафе",
		"чай":          "кафе",
		"завтрак":      "кафе",
		"обед":         "кафе",
		"ужин":         "кафе",
		"кафе":         "кафе",
		"ресторан":     "рестораны",
		"бар":          "рестораны",
		"суши":         "рестораны",
		"пицца":        "кафе",
		"фастфуд":      "кафе",
		"бургер":       "кафе",
		"шаурма":       "кафе",
		"макдоналдс":   "кафе",
		"kfc":          "кафе",
		"бургер кинг":  "кафе",
		"старбакс":     "кафе",
		"starbucks":    "кафе",
		"шоколадница":  "кафе",
		"кофеин":       "кафе",
		"costa coffee": "кафе",
		"subway":       "кафе",
		"сабвей":       "кафе",

		// Здоровье
		"лекарства":  "здоровье",
		"аптека":     "здоровье",
		"врач":       "здоровье",
		"анализы":    "здоровье",
		"витамины":   "здоровье",
		"стоматолог": "здоровье",
		"массаж":     "здоровье",

		// Связь
		"телефон":         "связь",
		"интернет":        "связь",
		"мобильная связь": "связь",
		"роутер":          "связь",
		"модем":           "связь",
		"телевидение":     "связь",

		// Развлечения
		"кино":     "развлечения",
		"театр":    "развлечения",
		"концерт":  "развлечения",
		"выставка": "развлечения",
		"музей":    "развлечения",
		"боулинг":  "развлечения",
		"бильярд":  "развлечения",
		"караоке":  "развлечения",
		"клуб":     "развлечения",
		"игры":     "развлечения",
		"подписка": "развлечения",

		// Коммунальные услуги
		"квартплата":    "коммуналка",
		"электричество": "коммуналка",
		"вода":          "коммуналка",
		"газ":           "коммуналка",
		"отопление":     "коммуналка",
	}
}
