package sport_test

import (
	"testing"

	"github.com/okian/courtside/internal/domain/sport"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFor(t *testing.T) {
	Convey("Given league codes", t, func() {
		Convey("When looking up known leagues in any case", func() {
			So(sport.For("nba").League, ShouldEqual, "NBA")
			So(sport.For("NHL").Family, ShouldEqual, sport.Hockey)
			So(sport.For("basketball_nba").League, ShouldEqual, "NBA")
			So(sport.Known("ncaab"), ShouldBeTrue)
		})

		Convey("When looking up an unknown league", func() {
			p := sport.For("curling")

			Convey("Then the generic profile is returned", func() {
				So(sport.Known("curling"), ShouldBeFalse)
				So(p.Family, ShouldEqual, sport.Generic)
				So(p.PeriodLabel(2), ShouldEqual, "P2")
				So(p.IsScoringAction("Team scores"), ShouldBeFalse)
			})
		})
	})
}

func TestPeriodLabels(t *testing.T) {
	Convey("Given sport profiles", t, func() {
		Convey("Then NBA uses quarters and overtimes", func() {
			nba := sport.For("NBA")
			So(nba.PeriodLabel(1), ShouldEqual, "Q1")
			So(nba.PeriodLabel(4), ShouldEqual, "Q4")
			So(nba.PeriodLabel(5), ShouldEqual, "OT")
			So(nba.PeriodLabel(6), ShouldEqual, "2OT")
			So(nba.PeriodLabel(0), ShouldEqual, "")
		})

		Convey("Then NCAAB uses halves", func() {
			ncaab := sport.For("NCAAB")
			So(ncaab.PeriodLabel(1), ShouldEqual, "1st Half")
			So(ncaab.PeriodLabel(2), ShouldEqual, "2nd Half")
			So(ncaab.PeriodLabel(3), ShouldEqual, "OT")
		})

		Convey("Then NHL uses numbered periods", func() {
			nhl := sport.For("NHL")
			So(nhl.PeriodLabel(1), ShouldEqual, "Period 1")
			So(nhl.PeriodLabel(4), ShouldEqual, "OT")
			So(nhl.PeriodLabel(5), ShouldEqual, "2OT")
		})

		Convey("Then MLB uses ordinal innings", func() {
			mlb := sport.For("MLB")
			So(mlb.PeriodLabel(1), ShouldEqual, "1st")
			So(mlb.PeriodLabel(3), ShouldEqual, "3rd")
			So(mlb.PeriodLabel(11), ShouldEqual, "11th")
			So(mlb.PeriodLabel(12), ShouldEqual, "12th")
		})
	})
}

func TestKeywords(t *testing.T) {
	Convey("Given the basketball profile", t, func() {
		nba := sport.For("NBA")

		Convey("Then made shots are scoring actions", func() {
			So(nba.IsScoringAction("Brown makes 3-pt shot"), ShouldBeTrue)
			So(nba.IsScoringAction("Tatum makes free throw 1 of 2"), ShouldBeTrue)
		})

		Convey("Then misses and blocks veto scoring keywords", func() {
			So(nba.IsScoringAction("Brown misses 3-pt shot"), ShouldBeFalse)
			So(nba.IsScoringAction("MISS Davis jumper"), ShouldBeFalse)
			So(nba.IsScoringAction("Davis blocks Brown's 3-pt shot"), ShouldBeFalse)
		})

		Convey("Then fouls and steals are context actions", func() {
			So(nba.IsContextAction("Horford shooting foul"), ShouldBeTrue)
			So(nba.IsContextAction("Smart steals the ball"), ShouldBeTrue)
			So(nba.IsContextAction("Tatum REBOUND"), ShouldBeFalse)
		})

		Convey("Then keywords only match whole words", func() {
			So(nba.IsContextAction("Foulkes enters the game"), ShouldBeFalse)
		})
	})

	Convey("Given the hockey profile", t, func() {
		nhl := sport.For("NHL")

		So(nhl.IsScoringAction("GOAL by Pastrnak (wrist shot)"), ShouldBeTrue)
		So(nhl.IsScoringAction("Shot on goal by Marchand saved by Vasilevskiy"), ShouldBeFalse)
		So(nhl.IsScoringAction("Goaltender change"), ShouldBeFalse)
		So(nhl.IsContextAction("Penalty: McAvoy 2 min hooking"), ShouldBeTrue)
	})

	Convey("Given the football profile", t, func() {
		nfl := sport.For("NFL")

		So(nfl.IsScoringAction("Tucker 45 yard field goal is GOOD"), ShouldBeTrue)
		So(nfl.IsScoringAction("Tucker 58 yard field goal is No Good"), ShouldBeFalse)
		So(nfl.IsContextAction("Mahomes sacked at KC 30"), ShouldBeTrue)
	})
}

func TestWithRunThreshold(t *testing.T) {
	Convey("Given the NBA profile", t, func() {
		nba := sport.For("NBA")

		Convey("When overriding the run threshold", func() {
			custom := nba.WithRunThreshold(10)

			Convey("Then the copy changes and the shared profile does not", func() {
				So(custom.RunThreshold, ShouldEqual, 10)
				So(nba.RunThreshold, ShouldEqual, 8)
				So(custom.PeriodLabel(1), ShouldEqual, "Q1")
			})
		})

		Convey("When the override is not positive", func() {
			So(nba.WithRunThreshold(0), ShouldEqual, nba)
		})
	})
}

func TestAbbreviation(t *testing.T) {
	Convey("Given team names", t, func() {
		So(sport.Abbreviation("NBA", "Boston Celtics"), ShouldEqual, "BOS")
		So(sport.Abbreviation("NHL", "Vegas Golden Knights"), ShouldEqual, "VGK")
		So(sport.Abbreviation("NBA", "Springfield Isotopes"), ShouldEqual, "ISO")
		So(sport.Abbreviation("NBA", ""), ShouldEqual, "")
		So(sport.TeamName("NBA", "LAL"), ShouldEqual, "Los Angeles Lakers")
		So(sport.TeamName("NBA", "XYZ"), ShouldEqual, "XYZ")
	})
}
