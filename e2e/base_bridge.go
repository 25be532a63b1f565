package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"estate-bridge/domain"
)

type BaseBridgeSuite struct {
	suite.Suite
	Config Config
	Bridge *stubBridge
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseBridgeSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// StepHeader prints a colorized header for a scenario step in logs
func (s *BaseBridgeSuite) StepHeader(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// StartStubBridge spins up an in-process wallet bridge speaking the same
// JSON-RPC surface as the real one, seeded with the given account.
func (s *BaseBridgeSuite) StartStubBridge(account domain.Address) *stubBridge {
	bridge := &stubBridge{
		account:  account,
		balances: map[domain.Address]domain.Amount{},
	}
	if s.Config.DebugJSON {
		bridge.logf = s.T().Logf
	}
	bridge.server = httptest.NewServer(http.HandlerFunc(bridge.handle))
	s.T().Cleanup(bridge.server.Close)
	s.Bridge = bridge
	return bridge
}

type bridgeRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int64             `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type bridgeListing struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       domain.Amount     `json:"price"`
	Location    string            `json:"location"`
	Documents   []domain.Document `json:"documents,omitempty"`
}

// stubBridge is an in-memory wallet bridge: it signs nothing, but keeps
// the same observable contract as the real one, including the
// account-switch behaviour a wallet exposes.
type stubBridge struct {
	server *httptest.Server
	logf   func(format string, args ...any)

	mu         sync.Mutex
	account    domain.Address
	balances   map[domain.Address]domain.Amount
	properties []domain.ListedProperty
	txCounter  int
}

func (b *stubBridge) Endpoint() string {
	return b.server.URL
}

func (b *stubBridge) SetAccount(account domain.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.account = account
}

func (b *stubBridge) SetBalance(account domain.Address, amount domain.Amount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] = amount
}

func (b *stubBridge) handle(w http.ResponseWriter, r *http.Request) {
	var req bridgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if b.logf != nil {
		raw, _ := json.Marshal(req)
		b.logf("BRIDGE %s %s", req.Method, raw)
	}

	result, err := b.dispatch(req)
	if err != nil {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32000,"message":%q}}`, req.ID, err.Error())
		return
	}
	raw, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		http.Error(w, marshalErr.Error(), http.StatusInternalServerError)
		return
	}
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, raw)
}

func (b *stubBridge) dispatch(req bridgeRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch req.Method {
	case "estate_getAllProperties":
		return b.properties, nil

	case "estate_getBalance":
		var account string
		if err := json.Unmarshal(req.Params[0], &account); err != nil {
			return nil, err
		}
		return b.balances[domain.Address(account)], nil

	case "estate_gasPrice":
		price, _ := domain.ParseAmount("0.000000001")
		return price, nil

	case "estate_createProperty":
		var listing bridgeListing
		if err := json.Unmarshal(req.Params[0], &listing); err != nil {
			return nil, err
		}
		if _, exists := domain.FindProperty(b.properties, domain.PropertyID(listing.ID)); exists {
			return nil, fmt.Errorf("execution reverted: Property ID already exists")
		}
		b.properties = append(b.properties, domain.ListedProperty{
			ID:          domain.PropertyID(listing.ID),
			Title:       listing.Title,
			Description: listing.Description,
			Price:       listing.Price,
			Location:    listing.Location,
			Owner:       b.account,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
			Documents:   listing.Documents,
		})
		return b.mintTx(), nil

	case "estate_createContract":
		var propertyID string
		if err := json.Unmarshal(req.Params[1], &propertyID); err != nil {
			return nil, err
		}
		for i := range b.properties {
			if b.properties[i].ID == domain.PropertyID(propertyID) {
				if !b.properties[i].IsActive {
					return nil, fmt.Errorf("execution reverted: Property is not active")
				}
				b.properties[i].IsActive = false
				b.properties[i].Owner = b.account
				return b.mintTx(), nil
			}
		}
		return nil, fmt.Errorf("execution reverted: Property does not exist")

	case "estate_awaitReceipt":
		return nil, nil

	case "estate_currentAccount":
		return b.account.String(), nil

	default:
		return nil, fmt.Errorf("unknown method %s", req.Method)
	}
}

func (b *stubBridge) mintTx() domain.TxHandle {
	b.txCounter++
	return domain.TxHandle{Hash: fmt.Sprintf("0x%064x", b.txCounter)}
}
