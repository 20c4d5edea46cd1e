package types

// Platform endpoints. The sandbox environment mirrors production on
// separate hosts.
const (
	CheckoutProductionURL = "https://www.yenepay.com/checkout/Home/Process/"
	CheckoutSandboxURL    = "https://testapp.yenepay.com/Home/Process/"

	URLGenerateProductionURL = "https://endpoints.yenepay.com/api/urlgenerate/getcheckouturl/"
	URLGenerateSandboxURL    = "https://testapi.yenepay.com/api/urlgenerate/getcheckouturl/"

	PDTProductionURL = "https://endpoints.yenepay.com/api/verify/pdt/"
	PDTSandboxURL    = "https://testapi.yenepay.com/api/verify/pdt/"

	IPNProductionURL = "https://endpoints.yenepay.com/api/verify/ipn/"
	IPNSandboxURL    = "https://testapi.yenepay.com/api/verify/ipn/"
)

// Endpoints is the set of platform URLs a client talks to. Tests override
// it to point at a stub server.
type Endpoints struct {
	Checkout    string
	URLGenerate string
	PDT         string
	IPN         string
}

// DefaultEndpoints returns the platform endpoint table for the given
// environment.
func DefaultEndpoints(sandbox bool) Endpoints {
	if sandbox {
		return Endpoints{
			Checkout:    CheckoutSandboxURL,
			URLGenerate: URLGenerateSandboxURL,
			PDT:         PDTSandboxURL,
			IPN:         IPNSandboxURL,
		}
	}
	return Endpoints{
		Checkout:    CheckoutProductionURL,
		URLGenerate: URLGenerateProductionURL,
		PDT:         PDTProductionURL,
		IPN:         IPNProductionURL,
	}
}

// EnvironmentLabel returns the metrics/log label for an environment flag.
func EnvironmentLabel(sandbox bool) string {
	if sandbox {
		return "sandbox"
	}
	return "production"
}
