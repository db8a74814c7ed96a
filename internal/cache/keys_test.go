package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/cache"
)

var _ = Describe("Keys", func() {
	It("builds the documented key shapes", func() {
		Expect(cache.CategoriesKey(1)).To(Equal("categories:user:1"))
		Expect(cache.MonthlySummaryKey(1, 2025, 7)).To(Equal("summary:monthly:1:2025-7"))
		Expect(cache.CategorySummaryKey(1, "2025-07-01", "2025-07-31")).To(Equal("summary:categories:1:2025-07-01:2025-07-31"))
	})

	It("is deterministic for the same query", func() {
		Expect(cache.KeyFor(cache.OpMonthlySummary, 1, "2024-5")).To(Equal(cache.MonthlySummaryKey(1, 2024, 5)))
		Expect(cache.MonthlySummaryKey(3, 2024, 5)).To(Equal(cache.MonthlySummaryKey(3, 2024, 5)))
	})

	It("keeps distinct queries apart", func() {
		keys := []string{
			cache.MonthlySummaryKey(1, 2024, 5),
			cache.MonthlySummaryKey(1, 2024, 6),
			cache.MonthlySummaryKey(2, 2024, 5),
			cache.MonthlySummaryKey(1, 2024, 11),
			cache.MonthlySummaryKey(11, 2024, 1),
			cache.CategorySummaryKey(1, "2024-05-01", "2024-05-31"),
			cache.CategoriesKey(1),
		}
		seen := map[string]bool{}
		for _, k := range keys {
			Expect(seen).NotTo(HaveKey(k))
			seen[k] = true
		}
	})

	It("scopes summary prefixes to a single user", func() {
		prefixes := cache.UserSummaryPrefixes(1)
		Expect(prefixes).To(ConsistOf("summary:monthly:1:", "summary:categories:1:"))
		for _, p := range prefixes {
			Expect(cache.MonthlySummaryKey(12, 2025, 7)).NotTo(HavePrefix(p))
		}
		Expect(cache.MonthlySummaryKey(1, 2025, 7)).To(HavePrefix(prefixes[0]))
	})

	Describe("NormalizeDate", func() {
		It("reduces equivalent inputs to one form", func() {
			a, err := cache.NormalizeDate("2025-07-01")
			Expect(err).NotTo(HaveOccurred())
			b, err := cache.NormalizeDate("2025-07-01T00:00:00Z")
			Expect(err).NotTo(HaveOccurred())
			c, err := cache.NormalizeDate(" 2025-07-01T18:30:00+02:00 ")
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal("2025-07-01"))
			Expect(b).To(Equal(a))
			Expect(c).To(Equal(a))
		})

		It("pads single-digit months and days", func() {
			for _, raw := range []string{"2025-7-1", "2025-07-1", "2025-7-01"} {
				normalized, err := cache.NormalizeDate(raw)
				Expect(err).NotTo(HaveOccurred(), raw)
				Expect(normalized).To(Equal("2025-07-01"), raw)
			}
		})

		It("rejects garbage", func() {
			for _, raw := range []string{"", "yesterday", "2025-13-01", "2025-02-30", "2025-7-32"} {
				_, err := cache.NormalizeDate(raw)
				Expect(err).To(HaveOccurred(), raw)
			}
		})
	})
})
