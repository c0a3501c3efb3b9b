package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractTableItems", func() {
	var (
		tables [][][]string
		items  []LineItem
	)

	JustBeforeEach(func() {
		items = extractTableItems(tables)
	})

	When("a table has a well-formed data row", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1", "Погрузка", "3", "шт.", "50,00", "150,00"},
			}}
		})

		It("emits one table item", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Kind()).To(Equal(KindTableItem))
		})

		It("coerces every column", func() {
			item := items[0].(TableItem)
			Expect(item.RowNumber).To(Equal(1))
			Expect(item.Description).To(Equal("Погрузка"))
			Expect(item.Quantity).To(Equal(3.0))
			Expect(item.Unit).To(Equal("шт."))
			Expect(item.PricePerUnit).To(Equal(50.0))
			Expect(item.TotalAmount).To(Equal(150.0))
		})
	})

	When("a table contains header rows", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"№", "Наименование", "Кол-во", "Ед.", "Цена", "Сумма"},
				{"Наименование услуги", "x", "y", "z", "w", "v"},
				{"2", "Разгрузка", "1", "шт.", "75,00", "75,00"},
			}}
		})

		It("skips them and keeps the data row", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].(TableItem).RowNumber).To(Equal(2))
		})
	})

	When("the first cell carries stray whitespace around the number", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{" 1", "Погрузка", "3", "шт.", "50,00", "150,00"},
			}}
		})

		It("emits nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("the first cell is not purely numeric", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1a", "Погрузка", "3", "шт.", "50,00", "150,00"},
			}}
		})

		It("emits nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a row has a zero total amount", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1", "Погрузка", "3", "шт.", "50,00", "0,00"},
			}}
		})

		It("discards the row", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a row has no amount cell at all", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1", "Погрузка", "3", "шт.", "50,00"},
			}}
		})

		It("discards the row", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a row has an empty description", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1", "  ", "3", "шт.", "50,00", "150,00"},
			}}
		})

		It("discards the row", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a row is too narrow", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1", "Погрузка", "3"},
			}}
		})

		It("discards the row", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a bad row sits between good rows", func() {
		BeforeEach(func() {
			tables = [][][]string{{
				{"1", "Погрузка", "3", "шт.", "50,00", "150,00"},
				{"не номер", "Мусор", "", "", "", ""},
				{"3", "Разгрузка", "2", "шт.", "60,00", "120,00"},
			}}
		})

		It("keeps processing the remaining rows", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0].(TableItem).RowNumber).To(Equal(1))
			Expect(items[1].(TableItem).RowNumber).To(Equal(3))
		})
	})

	When("the same service appears in two tables", func() {
		BeforeEach(func() {
			row := []string{"1", "Погрузка", "3", "шт.", "50,00", "150,00"}
			tables = [][][]string{{row}, {row}}
		})

		It("keeps both occurrences", func() {
			Expect(items).To(HaveLen(2))
		})
	})

	When("there are no tables", func() {
		BeforeEach(func() {
			tables = nil
		})

		It("emits nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})
})
