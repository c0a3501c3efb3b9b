package extract

import (
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubSource is an in-memory Source for pipeline tests.
type stubSource struct {
	pages    []Page
	pagesErr error
	closed   bool
}

func (s *stubSource) Pages() ([]Page, error) {
	if s.pagesErr != nil {
		return nil, s.pagesErr
	}
	return s.pages, nil
}

func (s *stubSource) Close() error {
	s.closed = true
	return nil
}

// fixedClock always reports the same instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var _ = Describe("Parser", func() {
	var (
		parser *Parser
		source *stubSource
		result *Result
		err    error
		now    time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
		parser = NewParserWithClock(fixedClock{now: now})
		source = &stubSource{}
	})

	JustBeforeEach(func() {
		result, err = parser.Parse(source)
	})

	When("parsing a full two-page document", func() {
		BeforeEach(func() {
			source.pages = []Page{
				{
					Text: "Детализация к счету № 12345-1 от 01.02.2024\n" +
						"Исполнитель: ООО Склад-Сервис , ИНН 7712345678\n" +
						"Заказчик: ООО Ромашка , ИНН 7701234567 , Адрес: г. Москва, ул. Ленина 1 , тел. +7(900)123-45-67",
					Tables: [][][]string{{
						{"№", "Наименование", "Кол-во", "Ед.", "Цена", "Сумма"},
						{"1", "Погрузка", "3", "шт.", "50,00", "150,00"},
					}},
				},
				{
					Text: "Хранение товаров от 01.01.2024 до 31.01.2024 2,50 м³ 100,00 ₽ 250,00 ₽\n" +
						"Итого к оплате: 400,00 ₽\n" +
						"В том числе НДС: 66,67 ₽",
				},
			}
		})

		It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("fills the header from both text pages", func() {
			Expect(result.InvoiceInfo.Number).To(Equal("12345-1"))
			Expect(result.CompanyInfo.INN).To(Equal("7712345678"))
			Expect(result.CustomerInfo.Phone).To(Equal("+7(900)123-45-67"))
		})

		It("orders table items before text items", func() {
			Expect(result.LineItems).To(HaveLen(2))
			Expect(result.LineItems[0].Kind()).To(Equal(KindTableItem))
			Expect(result.LineItems[1].Kind()).To(Equal(KindStorage))
		})

		It("fills the totals", func() {
			Expect(result.Totals.TotalAmount).To(HaveValue(Equal(400.0)))
			Expect(result.Totals.VATAmount).To(HaveValue(Equal(66.67)))
		})

		It("stamps the result with the injected clock", func() {
			Expect(result.ParsedAt).To(Equal(now))
		})
	})

	When("the same charge appears in both text and a table", func() {
		BeforeEach(func() {
			source.pages = []Page{{
				Text: "Хранение товаров от 01.01.2024 до 31.01.2024 2,50 м³ 100,00 ₽ 250,00 ₽",
				Tables: [][][]string{{
					{"1", "Хранение товаров", "2,50", "м³", "100,00", "250,00"},
				}},
			}}
		})

		It("keeps both items without deduplication", func() {
			Expect(result.LineItems).To(HaveLen(2))
		})
	})

	When("the document contains none of the known markers", func() {
		BeforeEach(func() {
			source.pages = []Page{{Text: "Совсем другой документ\nбез знакомых строк"}}
		})

		It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns an empty but non-nil item list", func() {
			Expect(result.LineItems).NotTo(BeNil())
			Expect(result.LineItems).To(BeEmpty())
		})

		It("returns empty header and totals", func() {
			Expect(result.InvoiceInfo).To(Equal(InvoiceInfo{}))
			Expect(result.CompanyInfo).To(Equal(PartyInfo{}))
			Expect(result.CustomerInfo).To(Equal(PartyInfo{}))
			Expect(result.Totals).To(Equal(Totals{}))
		})
	})

	When("parsing the same document twice", func() {
		BeforeEach(func() {
			source.pages = []Page{{
				Text: "Детализация к счету № 777 от 05.03.2024\n" +
					"Приемка товара на склад и размещение 10 шт. 5,00 ₽ 50,00 ₽",
			}}
		})

		It("produces identical serialized results", func() {
			Expect(err).NotTo(HaveOccurred())
			again, err := parser.Parse(&stubSource{pages: source.pages})
			Expect(err).NotTo(HaveOccurred())

			first, err := json.Marshal(result)
			Expect(err).NotTo(HaveOccurred())
			second, err := json.Marshal(again)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	When("the source cannot be read", func() {
		BeforeEach(func() {
			source.pagesErr = errors.New("broken xref table")
		})

		It("propagates the failure", func() {
			Expect(err).To(MatchError(ContainSubstring("reading document pages")))
			Expect(result).To(BeNil())
		})
	})
})

var _ = Describe("Result serialization", func() {
	It("round-trips line items through the type discriminator", func() {
		items := []LineItem{
			StorageItem{Type: KindStorage, Description: "Хранение товаров от 01.01.2024 до 31.01.2024", FromDate: "01.01.2024", ToDate: "31.01.2024", Quantity: 2.5, Unit: "м³", PricePerUnit: 100, TotalAmount: 250},
			ReceptionItem{Type: KindReception, Description: "Приемка товара на склад и размещение", Quantity: 10, Unit: "шт.", PricePerUnit: 5, TotalAmount: 50},
			ShipmentItem{Type: KindShipment, Description: "Отгрузка FBO 123", FBONumber: "123", Date: "02.02.2024"},
			ReceptionOperationItem{Type: KindReceptionOperation, Description: "Приемка 42", ReceptionNumber: "42", Date: "03.02.2024"},
			TableItem{Type: KindTableItem, RowNumber: 1, Description: "Погрузка", Quantity: 3, Unit: "шт.", PricePerUnit: 50, TotalAmount: 150},
		}

		for _, item := range items {
			data, err := json.Marshal(item)
			Expect(err).NotTo(HaveOccurred())

			decoded, err := DecodeLineItem(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(item))
		}
	})

	It("serializes Cyrillic and currency characters without escaping", func() {
		data, err := json.Marshal(StorageItem{Type: KindStorage, Description: "Хранение товаров", Unit: "м³"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("Хранение товаров"))
		Expect(string(data)).To(ContainSubstring("м³"))
	})

	It("rejects unknown line item types", func() {
		_, err := DecodeLineItem([]byte(`{"type":"mystery"}`))
		Expect(err).To(HaveOccurred())
	})

	It("omits absent totals from the serialized form", func() {
		v := 100.0
		data, err := json.Marshal(Totals{TotalAmount: &v})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"total_amount":100}`))
	})
})
