package expense_test

import (
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

var _ = Describe("ParseFilter", func() {
	It("parses all parameters into inclusive whole-day bounds", func() {
		f, err := expense.ParseFilter(url.Values{
			"categoryId": {"3"},
			"from":       {"2025-07-01"},
			"to":         {"2025-07-31"},
		}, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(*f.CategoryID).To(Equal(int64(3)))
		Expect(*f.From).To(Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
		Expect(*f.To).To(Equal(time.Date(2025, 7, 31, 23, 59, 59, 999000000, time.UTC)))
	})

	It("leaves missing parameters nil", func() {
		f, err := expense.ParseFilter(url.Values{}, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.CategoryID).To(BeNil())
		Expect(f.From).To(BeNil())
		Expect(f.To).To(BeNil())
	})

	It("rejects malformed values", func() {
		for _, q := range []url.Values{
			{"categoryId": {"abc"}},
			{"from": {"July"}},
			{"to": {"2025-02-30"}},
			{"from": {"2025-08-01"}, "to": {"2025-07-01"}},
		} {
			_, err := expense.ParseFilter(q, time.UTC)
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue(), q.Encode())
		}
	})
})
