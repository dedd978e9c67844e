package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/tilearena/internal/game"
	"github.com/Garsondee/tilearena/internal/mapstore"
)

type runStats struct {
	runIndex int
	seed     int64

	firstShotTick  int
	firstKillTick  int
	firstDeathTick int
	firstExitTick  int

	rounds      int
	shots       int
	kills       int
	deaths      int
	transitions int
	gameOvers   int
	visited     map[string]struct{}

	final game.RoundOutcomeReason
}

// arenaRows is the built-in start map used when no store is given.
var arenaRows = []string{
	"####################",
	"#..................#",
	"#..M...........M...#",
	"#......####........#",
	"#..................#",
	"#.........I........#",
	"#..................#",
	"...................#",
	"#..................#",
	"#......####........#",
	"#..................#",
	"#..M...........M...#",
	"#..................#",
	"#..................#",
	"##########.#########",
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var storeKind string
	var mapsAt string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&storeKind, "store", mapstore.KindImages, "map store kind (images, json, bolt, postgres)")
	flag.StringVar(&mapsAt, "maps", "", "map store location; empty uses the built-in arena")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	var src game.MapSource
	if mapsAt != "" {
		store, err := mapstore.Open(storeKind, mapsAt)
		if err != nil {
			log.Fatalf("open map store: %v", err)
		}
		defer store.Close()
		src = store
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d maps=%s\n\n", runs, ticks, seedBase, seedStep, describeMaps(storeKind, mapsAt))

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runArena(i+1, seed, ticks, src)
		if err != nil {
			log.Fatalf("run %d: %v", i+1, err)
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func describeMaps(kind, location string) string {
	if location == "" {
		return "built-in"
	}
	return kind + ":" + location
}

// newWorld loads src, or builds the built-in arena when src is nil.
func newWorld(src game.MapSource) (*game.World, error) {
	if src != nil {
		return game.LoadWorld(src, game.StartCoord)
	}
	w := game.NewWorld(game.StartCoord)
	g, o, err := game.ParseASCIIMap(arenaRows...)
	if err != nil {
		return nil, err
	}
	w.AddTiles(game.StartCoord, g)
	w.AddOverlay(game.StartCoord, o)
	return w, nil
}

func runArena(runIndex int, seed int64, ticks int, src game.MapSource) (runStats, error) {
	w, err := newWorld(src)
	if err != nil {
		return runStats{}, err
	}
	clock := game.NewManualClock()
	simLog := game.NewSimLog(false)
	n := 0
	sim := game.NewSim(w,
		game.WithClock(clock.Now),
		game.WithSimLog(simLog),
		game.WithRunIDs(func() string { n++; return fmt.Sprintf("r%d-%d", runIndex, n) }),
	)

	bot := newBot(seed)
	in := game.NewScriptedInput()
	for i := 0; i < ticks; i++ {
		bot.drive(in)
		sim.Step(in)
		clock.Advance(game.TickDuration)
	}

	rs := summarize(simLog.Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.rounds = sim.Rounds()
	rs.final = sim.Outcome()
	return rs, nil
}

// bot holds a random direction per player for a few dozen ticks at a time and
// fires now and then.
type bot struct {
	rng  *rand.Rand
	hold [2]int
	dir  [2]game.Key
}

func newBot(seed int64) *bot {
	return &bot{rng: rand.New(rand.NewSource(seed))}
}

func (b *bot) drive(in *game.ScriptedInput) {
	for i, c := range game.DefaultControls() {
		if b.hold[i] <= 0 {
			moves := []game.Key{game.KeyNone, c.Left, c.Right, c.Up, c.Down}
			in.Release(b.dir[i])
			b.dir[i] = moves[b.rng.Intn(len(moves))]
			b.hold[i] = 20 + b.rng.Intn(60)
			if b.dir[i] != game.KeyNone {
				in.Press(b.dir[i])
			}
		}
		b.hold[i]--
		if b.rng.Intn(30) == 0 {
			in.Fire(c.Fire)
		}
	}
}

func summarize(entries []game.SimLogEntry) runStats {
	rs := runStats{
		firstShotTick:  firstTick(entries, game.CatShot, "fire"),
		firstKillTick:  firstTick(entries, game.CatKill, "monster"),
		firstDeathTick: firstTick(entries, game.CatDeath, "contact"),
		firstExitTick:  firstTick(entries, game.CatMap, "exit"),
		visited:        map[string]struct{}{},
	}
	for _, e := range entries {
		switch {
		case e.Category == game.CatShot && e.Key == "fire":
			rs.shots++
		case e.Category == game.CatKill:
			rs.kills++
		case e.Category == game.CatDeath:
			rs.deaths++
		case e.Category == game.CatMap && e.Key == "exit":
			rs.transitions++
			if i := strings.LastIndex(e.Value, " "); i >= 0 {
				rs.visited[e.Value[i+1:]] = struct{}{}
			}
		case e.Category == game.CatRound && e.Key == "game_over":
			rs.gameOvers++
		}
	}
	return rs
}

// firstTick returns the tick of the first matching entry in the first round,
// or -1.
func firstTick(entries []game.SimLogEntry, category, key string) int {
	if len(entries) == 0 {
		return -1
	}
	run := entries[0].Run
	for _, e := range entries {
		if e.Run != run {
			break
		}
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("first_round_markers: shot=%d kill=%d death=%d exit=%d\n",
		rs.firstShotTick, rs.firstKillTick, rs.firstDeathTick, rs.firstExitTick)
	fmt.Printf("event_totals: rounds=%d game_over=%d shots=%d kills=%d deaths=%d transitions=%d\n",
		rs.rounds, rs.gameOvers, rs.shots, rs.kills, rs.deaths, rs.transitions)
	fmt.Printf("maps_entered: %s\n", joinSet(rs.visited))
	fmt.Printf("final_round: outcome=%s ticks=%d survivors=%d/%d kills=%d (%s)\n\n",
		rs.final.Outcome, rs.final.Ticks, rs.final.Survivors, rs.final.Players, rs.final.Kills, rs.final.Description)
}

func printAggregate(all []runStats) {
	totalShots := 0
	totalKills := 0
	totalDeaths := 0
	totalTransitions := 0
	totalRounds := 0
	outcomes := map[game.RoundOutcome]int{}
	killTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	visited := map[string]struct{}{}

	for _, rs := range all {
		totalShots += rs.shots
		totalKills += rs.kills
		totalDeaths += rs.deaths
		totalTransitions += rs.transitions
		totalRounds += rs.rounds
		outcomes[rs.final.Outcome]++
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		for k := range rs.visited {
			visited[k] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: rounds=%.1f shots=%.1f kills=%.1f deaths=%.1f transitions=%.1f\n",
		avg(totalRounds, len(all)), avg(totalShots, len(all)), avg(totalKills, len(all)), avg(totalDeaths, len(all)), avg(totalTransitions, len(all)))
	fmt.Printf("accuracy=%s\n", ratioString(totalKills, totalShots))
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_death=%s\n", avgTickString(killTicks), avgTickString(deathTicks))
	fmt.Printf("final_round_outcomes: in_progress=%d wiped=%d cleared=%d\n",
		outcomes[game.OutcomeInProgress], outcomes[game.OutcomeWiped], outcomes[game.OutcomeCleared])
	fmt.Printf("unique_maps_entered=%d [%s]\n", len(visited), joinSet(visited))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func ratioString(num, den int) string {
	if den == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(num)/float64(den)*100)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
