package categorizer

import "fjacquet/statement-import/internal/models"

// DefaultRules is used when no rule file is configured. Order matters:
// specific merchants come before generic words that would also match them.
func DefaultRules() models.CategoriesConfig {
	return models.CategoriesConfig{
		Expense: []models.CategoryConfig{
			{Name: models.CategoryTaxi, Keywords: []string{"такси", "taxi", "yandex go", "яндекс go", "uber", "citymobil", "ситимобил"}},
			{Name: models.CategorySubscriptions, Keywords: []string{
				"yandex plus", "яндекс плюс", "кинопоиск", "kinopoisk", "netflix", "spotify",
				"apple.com", "google play", "okko", "ivi.ru", "подписка", "subscription",
			}},
			{Name: models.CategoryGroceries, Keywords: []string{
				"пятёрочка", "pyaterochka", "магнит", "magnit", "перекрёсток", "perekrestok",
				"ашан", "auchan", "лента", "lenta", "вкусвилл", "vkusvill", "дикси", "dixy",
				"metro cash", "самокат", "samokat", "globus", "супермаркет", "продукты",
			}},
			{Name: models.CategoryRestaurants, Keywords: []string{
				"кафе", "cafe", "coffee", "кофе", "ресторан", "restaurant", "бургер", "burger",
				"kfc", "вкусно и точка", "шоколадница", "shokoladnitsa", "starbucks", "додо", "dodo",
				"суши", "sushi", "пицц", "pizza", "столовая",
			}},
			{Name: models.CategoryTransport, Keywords: []string{
				"метро", "metro", "транспорт", "transport", "мосгортранс", "ржд", "rzd",
				"аэроэкспресс", "тройка", "азс", "лукойл", "lukoil", "газпромнефть", "роснефть",
			}},
			{Name: models.CategoryTelecom, Keywords: []string{
				"мтс", "mts", "билайн", "beeline", "мегафон", "megafon", "tele2", "теле2",
				"ростелеком", "rostelecom", "интернет", "timeweb", "хостинг", "hosting",
			}},
			{Name: models.CategoryUtilities, Keywords: []string{"жкх", "жку", "коммунал", "квартплат", "мосэнергосбыт", "электроэнерг", "водоканал"}},
			{Name: models.CategoryHealth, Keywords: []string{
				"аптека", "apteka", "pharm", "клиника", "clinic", "стоматолог", "медицин",
				"ригла", "горздрав", "здоров",
			}},
			{Name: models.CategoryClothing, Keywords: []string{"одежда", "обувь", "zara", "uniqlo", "lamoda", "gloria jeans", "спортмастер", "sportmaster"}},
			{Name: models.CategoryEntertainment, Keywords: []string{"кино", "cinema", "театр", "концерт", "steam", "playstation", "боулинг", "музей", "развлечен"}},
			{Name: models.CategoryCash, Keywords: []string{"снятие наличных", "выдача наличных", "банкомат", "cash withdrawal"}},
			{Name: models.CategoryHome, Keywords: []string{"леруа", "leroy", "ikea", "икеа", "hoff", "хофф", "петрович", "строймаркет", "для дома"}},
			{Name: models.CategoryEducation, Keywords: []string{"skillbox", "нетология", "geekbrains", "coursera", "udemy", "школа", "образован", "университет"}},
			{Name: models.CategoryTransfers, Keywords: []string{"перевод", "transfer", "сбп", "по номеру телефона"}},
		},
		Income: []models.CategoryConfig{
			{Name: models.CategorySalary, Keywords: []string{"зарплата", "заработная плата", "заработной платы", "salary", "аванс", "оплата труда"}},
			{Name: models.CategoryCashback, Keywords: []string{"кэшбэк", "кешбэк", "кешбек", "cashback", "бонус"}},
			{Name: models.CategoryInterest, Keywords: []string{"процент", "капитализация", "interest"}},
			{Name: models.CategoryRefund, Keywords: []string{"возврат", "refund", "отмена операц", "отмена покупки"}},
			{Name: models.CategoryTransfers, Keywords: []string{"перевод", "пополнение", "transfer", "сбп", "внесение наличных"}},
		},
	}
}
