package sqlinline

// QClaimReferral consumes a token and hands back its grant. With $3 = true
// only tokens still inside their expiry are claimable.
const QClaimReferral = `--sql 100cf289-9499-4934-a86b-fe85791cfbab
delete from accountreferral
where referraltoken = $1::text
  and (not $3::boolean or expires_in > $2::bigint)
returning duration, expires_in;
`

const QInsertReferral = `--sql 0538fe60-afad-4c50-84cb-b89ca1e21b0d
insert into accountreferral (referraltoken, duration, expires_in)
values ($1::text, $2::bigint, $3::bigint);
`

const QDeleteExpiredReferrals = `--sql 21738b62-7c13-47e7-8815-af5143b6ec80
delete from accountreferral
where expires_in <= $1::bigint;
`
