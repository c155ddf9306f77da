package sberparser

import "strings"

// Category labels printed in the statement's "КАТЕГОРИЯ" column. Matching
// picks the longest label, so "Перевод с карты" wins over "Перевод".
var statementCategories = []string{
	"Автомобиль",
	"Благотворительность",
	"Внесение наличных",
	"Возврат, отмена операций",
	"Возврат покупки",
	"Все для дома",
	"Выдача наличных",
	"Здоровье и красота",
	"Коммунальные платежи, связь, интернет.",
	"Коммунальные платежи, связь, интернет",
	"Образование",
	"Одежда и аксессуары",
	"Отдых и развлечения",
	"Перевод",
	"Перевод на карту",
	"Перевод с карты",
	"Перевод СБП",
	"Перевод по СБП",
	"Поступление",
	"Прочие операции",
	"Прочие расходы",
	"Рестораны и кафе",
	"Супермаркеты",
	"Транспорт",
	"Туризм",
	"Зарплата",
	"Пенсия",
	"Кэшбэк",
	"Бонусы СберСпасибо",
	"Проценты",
	"Неизвестная категория(+)",
	"Неизвестная категория(-)",
}

// longestCategory finds the longest known label occurring in text and
// returns it with its byte offset, or "" and -1.
func longestCategory(text string) (string, int) {
	best, bestIdx := "", -1
	for _, c := range statementCategories {
		idx := strings.Index(text, c)
		if idx < 0 {
			continue
		}
		if len(c) > len(best) {
			best, bestIdx = c, idx
		}
	}
	return best, bestIdx
}
