package game

import (
	"depths-server/internal/domain"
	"depths-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Апгрейды, выдаваемые алтарями. Владение - множество идентификаторов,
// производные характеристики (урон, рикошеты) вычисляются в момент
// использования, а не запекаются в сущность.
const (
	UpgradePowerShots      = "power_shots"
	UpgradeRicochet        = "ricochet"
	UpgradeExplosiveRounds = "explosive_rounds"
	UpgradeFastHands       = "fast_hands"
	UpgradeToughSkin       = "tough_skin"
)

var upgradePool = []string{
	UpgradePowerShots,
	UpgradeRicochet,
	UpgradeExplosiveRounds,
	UpgradeFastHands,
	UpgradeToughSkin,
}

// grantAltarUpgrade выдает случайный еще не взятый апгрейд и гасит алтарь.
// Полный набор апгрейдов делает алтарь бесполезным, но не ломает игру.
func (w *World) grantAltarUpgrade(altar *domain.Entity) {
	var available []string
	for _, id := range upgradePool {
		if !w.Upgrades[id] {
			available = append(available, id)
		}
	}
	if len(available) == 0 {
		return
	}

	granted := available[w.rng.Intn(len(available))]
	w.Upgrades[granted] = true
	altar.MarkedForRemoval = true
	w.SpawnSparks(altar.Pos, "#a0f", 8)

	if granted == UpgradeToughSkin && w.Player.Combat != nil {
		w.Player.Combat.MaxHP += 2
		w.Player.Combat.HP += 2
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"upgrade":   granted,
	}).Info("Altar upgrade granted")
}
