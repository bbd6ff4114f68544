package records

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

const seedDays = 10

type saleProduct struct {
	name             string
	minW, maxW       float64
	minCost, maxCost float64
}

type stockProduct struct {
	name       string
	minW, maxW float64
	unitCost   float64
}

var seedCustomers = []string{
	"ร้านส้มตำป้าแก้ว", "ร้านข้าวแกงลุงชาย", "ตลาดสดบางแค", "ร้านหมูกระทะเฮีย",
	"ร้านอาหารครัวคุณนาย", "โรงแรมริเวอร์ไซด์", "ร้านข้าวมันไก่แม่ทอง", "ร้านก๋วยเตี๋ยวเจ๊หมวย",
	"ร้านบุฟเฟ่ต์ชาบู", "ภัตตาคารมังกรทอง", "ร้านสเต็กลุงจอห์น", "ร้านอาหารบ้านสวน",
	"คุณวิชัย (ขายปลีก)",
}

var seedSaleProducts = []saleProduct{
	{"เนื้อวัวสันใน", 1, 10, 350, 3500},
	{"เนื้อวัวสันนอก", 2, 15, 500, 4500},
	{"เนื้อวัวติดมัน", 3, 20, 600, 4000},
	{"ซี่โครงหมู", 2, 12, 200, 1800},
	{"สันคอหมู", 1, 8, 150, 1200},
	{"หมูสามชั้น", 2, 15, 250, 2250},
	{"อกไก่", 1, 10, 80, 900},
	{"น่องไก่", 2, 12, 100, 720},
	{"ปีกไก่", 1, 8, 60, 560},
	{"เนื้อแกะ", 1, 5, 400, 2500},
	{"กระดูกหมูอ่อน", 3, 10, 200, 800},
	{"เนื้อบด", 1, 8, 120, 1200},
}

var seedSuppliers = []string{
	"ฟาร์มเฮียชัย", "ซีพีเอฟ สาขา 1", "ตลาดไท", "เบทาโกร สาขาหลัก",
	"บริษัท สหฟาร์ม จำกัด", "ฟาร์มหมูเจริญ",
}

var seedStockProducts = []stockProduct{
	{"เนื้อวัวสันใน", 10, 50, 350},
	{"เนื้อวัวสันนอก", 15, 60, 500},
	{"เนื้อวัวติดมัน", 20, 80, 600},
	{"ซี่โครงหมู", 10, 40, 200},
	{"สันคอหมู", 15, 50, 150},
	{"หมูสามชั้น", 20, 60, 250},
	{"อกไก่", 20, 100, 80},
	{"น่องไก่", 15, 80, 100},
}

// DemoData generates ten days of sales (3-8 a day) and purchases (1-4 a day)
// ending on the calendar day of today.
func DemoData(today time.Time, rng *rand.Rand, newID func() string) ([]models.Sale, []models.Purchase) {
	var sales []models.Sale
	var purchases []models.Purchase

	for offset := 0; offset < seedDays; offset++ {
		day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()).AddDate(0, 0, -offset)
		date := day.Format(models.DateLayout)

		for j := range rng.IntN(6) + 3 {
			p := seedSaleProducts[rng.IntN(len(seedSaleProducts))]
			cost := math.Round(between(rng, p.minCost, p.maxCost))
			// about one sale in eight is a small loss (spoilage, markdowns)
			margin := 0.05 + rng.Float64()*0.15
			if rng.Float64() < 0.12 {
				margin = -rng.Float64() * 0.03
			}
			selling := math.Round(cost * (1 + margin))

			sales = append(sales, models.Sale{
				ID:           newID(),
				CustomerName: seedCustomers[rng.IntN(len(seedCustomers))],
				ProductName:  p.name,
				Weight:       oneDecimal(between(rng, p.minW, p.maxW)),
				CostPrice:    cost,
				SellingPrice: selling,
				Profit:       selling - cost,
				SaleDate:     date,
				CreatedAt:    day.Add(time.Duration(9+j) * time.Hour).UTC(),
			})
		}

		for j := range rng.IntN(4) + 1 {
			p := seedStockProducts[rng.IntN(len(seedStockProducts))]
			weight := oneDecimal(between(rng, p.minW, p.maxW))

			purchases = append(purchases, models.Purchase{
				ID:           newID(),
				SupplierName: seedSuppliers[rng.IntN(len(seedSuppliers))],
				ProductName:  p.name,
				Weight:       weight,
				CostPrice:    math.Round(weight * p.unitCost),
				ReceiveDate:  date,
				CreatedAt:    day.Add(time.Duration(8+j) * time.Hour).UTC(),
			})
		}
	}

	return sales, purchases
}

// Seed writes demo data into each collection whose key is still absent. Running it
// again is a no-op.
func (s *Store) Seed(ctx context.Context, rng *rand.Rand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, purchases := DemoData(s.now(), rng, s.newID)

	if err := seedKey(ctx, s, s.keys.Sales, sales); err != nil {
		return err
	}
	return seedKey(ctx, s, s.keys.Purchases, purchases)
}

func seedKey[T any](ctx context.Context, s *Store, key string, items []T) error {
	_, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("check seed key %s: %w", key, err)
	}
	if found {
		s.logger.Debug("collection already present, skipping seed", zap.String("key", key))
		return nil
	}
	if err := save(ctx, s, key, items); err != nil {
		return err
	}
	s.logger.Info("seeded demo collection", zap.String("key", key), zap.Int("records", len(items)))
	return nil
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func oneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
