// Package simulator advances a game state through time, buying and ascending
// according to configurable policies
package simulator

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/cps"
	"github.com/napolitain/solver-idle/internal/solver/optimizer"
)

// Settings control the automated player
type Settings struct {
	AutoBuy             bool
	MaxPurchasesPerTick int
	Policy              string  // see optimizer.PolicyNames
	AutoClickRate       float64 // manual clicks per simulated second
	AutoAscend          bool
	AscendMinGain       float64 // prestige levels an ascension must gain
}

// DefaultSettings returns auto-buy with the greedy policy
func DefaultSettings() Settings {
	return Settings{
		AutoBuy:             true,
		MaxPurchasesPerTick: models.DefaultMaxPurchasesPerTick,
		Policy:              "greedy",
		AscendMinGain:       1,
	}
}

// Stats accumulate over the lifetime of a simulator, across ascensions
type Stats struct {
	TotalTime       float64
	Steps           int
	Produced        float64 // passive production
	Handmade        float64 // click production
	BuildingsBought int
	UpgradesBought  int
	Ascensions      int
	PrestigeGained  float64
	Clicks          int
	GoldenClicks    int
}

// Purchases is the total number of purchases
func (st Stats) Purchases() int {
	return st.BuildingsBought + st.UpgradesBought
}

// Simulator owns one game state and advances it step by step.
// It is not safe for concurrent use.
type Simulator struct {
	catalog  *models.Catalog
	calc     *cps.Calculator
	opt      *optimizer.Optimizer
	policy   optimizer.Policy
	state    *models.GameState
	settings Settings
	stats    Stats

	runID      uuid.UUID
	log        *slog.Logger
	observers  map[EventKind][]Observer
	sequence   int64
	clickCarry float64 // fractional auto-clicks owed
}

// Option configures a Simulator
type Option func(*Simulator)

// WithInitialCurrency starts the run with some currency in hand
func WithInitialCurrency(amount float64) Option {
	return func(sim *Simulator) {
		if amount > 0 {
			sim.state.Currency = amount
		}
	}
}

// WithState starts from a copy of an existing state
func WithState(s *models.GameState) Option {
	return func(sim *Simulator) {
		if s != nil {
			sim.state = s.Clone()
		}
	}
}

// WithAutoBuy enables or disables automatic purchases
func WithAutoBuy(enabled bool) Option {
	return func(sim *Simulator) { sim.settings.AutoBuy = enabled }
}

// WithMaxPurchasesPerTick bounds the purchases made in one Advance
func WithMaxPurchasesPerTick(n int) Option {
	return func(sim *Simulator) {
		if n > 0 {
			sim.settings.MaxPurchasesPerTick = n
		}
	}
}

// WithPolicy selects the auto-purchase policy by name
func WithPolicy(name string) Option {
	return func(sim *Simulator) { sim.settings.Policy = name }
}

// WithAutoClick clicks at the given rate per simulated second
func WithAutoClick(perSecond float64) Option {
	return func(sim *Simulator) {
		sim.settings.AutoClickRate = math.Max(0, perSecond)
	}
}

// WithAutoAscend ascends whenever an ascension would gain at least minGain
// prestige levels (never less than one)
func WithAutoAscend(minGain float64) Option {
	return func(sim *Simulator) {
		sim.settings.AutoAscend = true
		sim.settings.AscendMinGain = math.Max(1, minGain)
	}
}

// WithSettings replaces all settings at once
func WithSettings(st Settings) Option {
	return func(sim *Simulator) { sim.settings = st }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(sim *Simulator) {
		if l != nil {
			sim.log = l
		}
	}
}

// New creates a simulator over a fresh state for the catalog
func New(cat *models.Catalog, opts ...Option) *Simulator {
	calc := cps.New(cat)
	sim := &Simulator{
		catalog:  cat,
		calc:     calc,
		opt:      optimizer.New(calc),
		state:    models.NewGameState(cat),
		settings: DefaultSettings(),
		runID:    uuid.New(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(sim)
	}
	sim.applySettings()
	return sim
}

// Configure applies options to a running simulator, for instance to
// override settings restored by Load
func (sim *Simulator) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(sim)
	}
	sim.applySettings()
}

func (sim *Simulator) applySettings() {
	if sim.settings.MaxPurchasesPerTick <= 0 {
		sim.settings.MaxPurchasesPerTick = models.DefaultMaxPurchasesPerTick
	}
	p, ok := optimizer.PolicyByName(sim.opt, sim.settings.Policy)
	if !ok {
		sim.log.Warn("unknown purchase policy, using greedy", "policy", sim.settings.Policy)
		p, _ = optimizer.PolicyByName(sim.opt, "greedy")
	}
	sim.settings.Policy = p.Name()
	sim.policy = p
	if sim.settings.AutoAscend && !(sim.settings.AscendMinGain >= 1) {
		sim.settings.AscendMinGain = 1
	}
	sim.calc.Invalidate()
}

// Advance moves the simulation forward by dt seconds as a single step
func (sim *Simulator) Advance(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	st := sim.state

	rate := sim.calc.Rate(st)
	produced := rate * dt
	st.Earn(produced)
	sim.stats.Produced += produced

	for _, name := range st.TickBuffs(dt) {
		sim.emit(EventBuff, BuffPayload{Name: name, Expired: true})
	}

	sim.evaluateUnlocks()

	if sim.settings.AutoClickRate > 0 {
		sim.clickCarry += sim.settings.AutoClickRate * dt
		if n := int(sim.clickCarry); n > 0 {
			sim.clickCarry -= float64(n)
			sim.ManualClick(n)
		}
	}

	if sim.settings.AutoBuy {
		sim.autoPurchase()
	}

	ascended := false
	if sim.settings.AutoAscend && st.PotentialPrestige()-st.Prestige >= sim.settings.AscendMinGain {
		sim.Ascend()
		ascended = true
	}

	// a run started by this tick's ascension begins at zero
	if !ascended {
		st.Elapsed += dt
	}
	sim.stats.TotalTime += dt
	sim.stats.Steps++
	sim.emit(EventTick, TickPayload{Dt: dt, Rate: rate, Produced: produced})
}

// AdvanceFor advances by duration in steps of step seconds; a shorter final
// step covers any remainder
func (sim *Simulator) AdvanceFor(duration, step float64) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return
	}
	if step <= 0 || step > duration {
		step = duration
	}
	n := int(duration / step)
	for i := 0; i < n; i++ {
		sim.Advance(step)
	}
	if rem := duration - float64(n)*step; rem > 1e-9 {
		sim.Advance(rem)
	}
}

// AdvanceUntil advances in steps until pred holds or maxTime seconds pass.
// The predicate is checked before the first step and must not modify the
// state it is given.
func (sim *Simulator) AdvanceUntil(pred func(*models.GameState) bool, maxTime, step float64) bool {
	if pred(sim.state) {
		return true
	}
	if step <= 0 {
		step = 1
	}
	elapsed := 0.0
	for elapsed < maxTime {
		dt := math.Min(step, maxTime-elapsed)
		sim.Advance(dt)
		elapsed += dt
		if pred(sim.state) {
			return true
		}
	}
	return false
}

func (sim *Simulator) evaluateUnlocks() {
	upgrades := sim.state.EvaluateUnlocks(sim.catalog)
	achievements := sim.state.EvaluateAchievements(sim.catalog)
	if len(upgrades) > 0 || len(achievements) > 0 {
		sim.emit(EventUnlock, UnlockPayload{Upgrades: upgrades, Achievements: achievements})
	}
}

// autoPurchase buys at most MaxPurchasesPerTick items per step
func (sim *Simulator) autoPurchase() {
	for i := 0; i < sim.settings.MaxPurchasesPerTick; i++ {
		opt, ok := sim.policy.Next(sim.state)
		if !ok || !sim.opt.Apply(sim.state, opt) {
			return
		}
		sim.purchased(opt, 1, true)
	}
}

func (sim *Simulator) purchased(opt optimizer.PurchaseOption, count int, auto bool) {
	sim.calc.Invalidate()
	if opt.Kind == optimizer.KindBuilding {
		sim.stats.BuildingsBought += count
	} else {
		sim.stats.UpgradesBought++
	}
	sim.log.Debug("purchase", "run", sim.runID, "kind", opt.Kind.String(), "id", opt.ID, "count", count, "price", opt.Price)
	sim.emit(EventPurchase, PurchasePayload{Option: opt, Count: count, Auto: auto})
}

// ManualClick clicks n times and returns the currency earned
func (sim *Simulator) ManualClick(n int) float64 {
	if n <= 0 {
		return 0
	}
	earned := sim.calc.ClickPower(sim.state) * float64(n)
	sim.state.Earn(earned)
	sim.state.Clicks += n
	sim.state.Handmade += earned
	sim.stats.Clicks += n
	sim.stats.Handmade += earned
	sim.emit(EventClick, ClickPayload{Clicks: n, Earned: earned})
	return earned
}

// ClickGoldenCookie grants the named buff preset. Owned golden-luck upgrades
// lengthen it by their magnitude. Unknown presets are ignored.
func (sim *Simulator) ClickGoldenCookie(preset string) bool {
	def, ok := sim.catalog.Buff(preset)
	if !ok {
		return false
	}
	b := def.Instance()
	sim.catalog.EachUpgrade(func(u models.UpgradeDef) {
		if u.Special == models.SpecialGoldenLuck && sim.state.HasUpgrade(u.Name) {
			b.Remaining *= 1 + u.Magnitude
		}
	})
	sim.state.GoldenClicks++
	sim.stats.GoldenClicks++
	sim.AddBuff(def.Name, b)
	return true
}

// AddBuff starts or restarts a named buff
func (sim *Simulator) AddBuff(name string, b models.Buff) {
	if b.Remaining <= 0 {
		return
	}
	sim.state.AddBuff(name, b)
	sim.emit(EventBuff, BuffPayload{Name: name, Buff: b})
}

// BuyBuilding buys count units of a building
func (sim *Simulator) BuyBuilding(id string, count int) bool {
	price := sim.catalog.BulkPrice(id, sim.state.BuildingCount(id), count)
	if !sim.state.BuyBuilding(sim.catalog, id, count) {
		return false
	}
	sim.purchased(optimizer.PurchaseOption{Kind: optimizer.KindBuilding, ID: id, Price: price}, count, false)
	return true
}

// BuyUpgrade buys an upgrade
func (sim *Simulator) BuyUpgrade(id string) bool {
	u, ok := sim.catalog.Upgrade(id)
	if !ok || !sim.state.BuyUpgrade(sim.catalog, id) {
		return false
	}
	sim.purchased(optimizer.PurchaseOption{Kind: optimizer.KindUpgrade, ID: id, Price: u.Price, Premium: u.Premium}, 1, false)
	return true
}

// Ascend resets the run for prestige and returns the levels gained
func (sim *Simulator) Ascend() float64 {
	gained := sim.state.Ascend(sim.catalog)
	sim.calc.Invalidate()
	sim.clickCarry = 0
	sim.stats.Ascensions++
	sim.stats.PrestigeGained += gained
	sim.log.Info("ascended",
		"run", sim.runID, "gained", gained, "prestige", sim.state.Prestige, "time", sim.stats.TotalTime)
	sim.emit(EventAscend, AscendPayload{Gained: gained, Prestige: sim.state.Prestige, Carried: sim.state.Carried})
	return gained
}

// Rate returns the current production per second
func (sim *Simulator) Rate() float64 {
	return sim.calc.Rate(sim.state)
}

// ClickPower returns the currency one click earns now
func (sim *Simulator) ClickPower() float64 {
	return sim.calc.ClickPower(sim.state)
}

// Breakdown itemizes the current rate
func (sim *Simulator) Breakdown() cps.Breakdown {
	return sim.calc.Breakdown(sim.state)
}

// OwnedCounts returns a copy of the building counts
func (sim *Simulator) OwnedCounts() map[string]int {
	out := make(map[string]int, len(sim.state.OwnedCounts))
	for k, v := range sim.state.OwnedCounts {
		out[k] = v
	}
	return out
}

// State returns a deep copy of the game state
func (sim *Simulator) State() *models.GameState {
	return sim.state.Clone()
}

func (sim *Simulator) Stats() Stats { return sim.stats }
func (sim *Simulator) Settings() Settings { return sim.settings }
func (sim *Simulator) Catalog() *models.Catalog { return sim.catalog }
func (sim *Simulator) Optimizer() *optimizer.Optimizer { return sim.opt }
func (sim *Simulator) RunID() string { return sim.runID.String() }

// Recommendations returns the k best purchases regardless of budget
func (sim *Simulator) Recommendations(k int) []optimizer.PurchaseOption {
	return sim.opt.PriorityList(sim.state, k)
}

// Summary is a point-in-time digest of a run
type Summary struct {
	RunID             string
	Policy            string
	TotalTime         float64
	Rate              float64
	Currency          float64
	Lifetime          float64
	Prestige          float64
	PotentialPrestige float64
	Buildings         int
	Upgrades          int
	Achievements      int
	Stats             Stats
	ProducedPerHour   float64
	PurchasesPerHour  float64
}

// Summary reports the current totals
func (sim *Simulator) Summary() Summary {
	sum := Summary{
		RunID:             sim.RunID(),
		Policy:            sim.settings.Policy,
		TotalTime:         sim.stats.TotalTime,
		Rate:              sim.Rate(),
		Currency:          sim.state.Currency,
		Lifetime:          sim.state.Lifetime(),
		Prestige:          sim.state.Prestige,
		PotentialPrestige: sim.state.PotentialPrestige(),
		Upgrades:          len(sim.state.OwnedUpgrades),
		Achievements:      len(sim.state.Achievements),
		Stats:             sim.stats,
	}
	for _, n := range sim.state.OwnedCounts {
		sum.Buildings += n
	}
	if hours := sim.stats.TotalTime / 3600; hours > 0 {
		sum.ProducedPerHour = (sim.stats.Produced + sim.stats.Handmade) / hours
		sum.PurchasesPerHour = float64(sim.stats.Purchases()) / hours
	}
	return sum
}
