// Package validator registers the domain binding tags with Gin's validator engine.
package validator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// iso4217 lists the active ISO 4217 currency codes.
var iso4217 = func() map[string]bool {
	codes := map[string]bool{}
	for _, c := range strings.Fields(`
		AED AFN ALL AMD ANG AOA ARS AUD AWG AZN BAM BBD BDT BGN BHD BIF BMD BND BOB BRL
		BSD BTN BWP BYN BZD CAD CDF CHF CLP CNY COP CRC CUP CVE CZK DJF DKK DOP DZD EGP
		ERN ETB EUR FJD FKP GBP GEL GHS GIP GMD GNF GTQ GYD HKD HNL HTG HUF IDR ILS INR
		IQD IRR ISK JMD JOD JPY KES KGS KHR KMF KPW KRW KWD KYD KZT LAK LBP LKR LRD LSL
		LYD MAD MDL MGA MKD MMK MNT MOP MRU MUR MVR MWK MXN MYR MZN NAD NGN NIO NOK NPR
		NZD OMR PAB PEN PGK PHP PKR PLN PYG QAR RON RSD RUB RWF SAR SBD SCR SDG SEK SGD
		SHP SLE SOS SRD SSP STN SVC SYP SZL THB TJS TMT TND TOP TRY TTD TWD TZS UAH UGX
		USD UYU UZS VES VND VUV WST XAF XCD XOF XPF YER ZAR ZMW ZWL`) {
		codes[c] = true
	}
	return codes
}()

var registerOnce sync.Once

// Register registers all custom validators with the Gin binding engine.
// Calling it more than once is harmless.
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterOn(v)
		}
	})
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("account_type", func(fl validator.FieldLevel) bool {
		return models.AccountType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category_type", func(fl validator.FieldLevel) bool {
		return models.CategoryType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("transaction_type", func(fl validator.FieldLevel) bool {
		return models.TransactionType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("budget_period", func(fl validator.FieldLevel) bool {
		return models.BudgetPeriod(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("goal_type", func(fl validator.FieldLevel) bool {
		return models.GoalType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("goal_status", func(fl validator.FieldLevel) bool {
		return models.GoalStatus(fl.Field().String()).Valid()
	})
}

func validateISO4217(fl validator.FieldLevel) bool {
	return iso4217[fl.Field().String()]
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}
