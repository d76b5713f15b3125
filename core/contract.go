package core

// ContractBracket is one row of the contract-length lookup table. A row applies to
// ages up to MaxAge; Tiers are checked in order and the first MinPrice the price
// reaches decides the years.
type ContractBracket struct {
	MaxAge int
	Tiers  []ContractTier
}

// ContractTier maps a price floor ($M) to contract years.
type ContractTier struct {
	MinPrice float64
	Years    int
}

// ContractTable is the documented age x price lookup. Younger and higher-priced
// players get longer deals. Ages above the last bracket get 1 year.
var ContractTable = []ContractBracket{
	{MaxAge: 26, Tiers: []ContractTier{{20, 7}, {10, 6}, {0, 5}}},
	{MaxAge: 29, Tiers: []ContractTier{{20, 6}, {10, 5}, {0, 4}}},
	{MaxAge: 32, Tiers: []ContractTier{{15, 4}, {8, 3}, {0, 2}}},
	{MaxAge: 35, Tiers: []ContractTier{{10, 2}, {0, 1}}},
}

const (
	minContractYears = 1
	maxContractYears = 7
)

// ContractYears derives the contract length for a player of the given age signed at price.
func ContractYears(age int, price float64) int {
	for _, bracket := range ContractTable {
		if age > bracket.MaxAge {
			continue
		}
		for _, tier := range bracket.Tiers {
			if AmountAtLeast(price, tier.MinPrice) {
				return clampYears(tier.Years)
			}
		}
		return minContractYears
	}
	return minContractYears
}

func clampYears(years int) int {
	if years < minContractYears {
		return minContractYears
	}
	if years > maxContractYears {
		return maxContractYears
	}
	return years
}
